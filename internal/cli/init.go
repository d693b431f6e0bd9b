package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/e111077/baobranch/internal/actions"
	"github.com/e111077/baobranch/internal/tui"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var (
		trunk string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Record which branch is the trunk for this repository",
		Long: `Record which branch is the trunk for this repository.

The trunk is an explicit choice, not a guess: main or master only seed the
prompt default. Everything else baobranch does hangs off this setting.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.InitOptions{
				Trunk: trunk,
				Reset: reset,
			}
			return actions.InitAction(context.Background(), opts, tui.NewSplog())
		},
	}

	cmd.Flags().StringVar(&trunk, "trunk", "", "Trunk branch name (skips the prompt)")
	cmd.Flags().BoolVar(&reset, "reset", false, "Re-run initialization even if already configured")

	return cmd
}
