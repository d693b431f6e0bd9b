package cli

import (
	"github.com/spf13/cobra"

	"github.com/e111077/baobranch/internal/actions"
	"github.com/e111077/baobranch/internal/runtime"
)

// newUnamendCmd creates the unamend command
func newUnamendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unamend",
		Short: "Undo the last amend, staging the amended changes again",
		Long: `Undo the last amend on the current branch.

The tip is restored from the reflog and the reset is soft, so the delta the
amend folded in comes back as staged changes.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			return actions.UnamendAction(ctx)
		},
	}

	return cmd
}
