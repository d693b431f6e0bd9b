package cli

import (
	"github.com/spf13/cobra"

	"github.com/e111077/baobranch/internal/actions"
	"github.com/e111077/baobranch/internal/runtime"
)

// newSplitCmd creates the split command
func newSplitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Explode the current commit into one stacked branch per file",
		Long: `Explode the current branch's commit into a stack of branches, one per
changed file. The original branch keeps its tip and is tagged as the split
root so the new stack's ancestry stays derivable.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			return actions.SplitAction(ctx)
		},
	}

	return cmd
}
