package cli

import (
	"github.com/spf13/cobra"

	"github.com/e111077/baobranch/internal/actions"
	"github.com/e111077/baobranch/internal/runtime"
)

// newPushCmd creates the push command
func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "push",
		Short:        "Force-push the current branch with a lease",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			return actions.PushAction(ctx)
		},
	}

	return cmd
}

// newPRCmd creates the pr command
func newPRCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pr",
		Short: "Point each open pull request's base at its resolved parent",
		Long: `Point each open pull request's base at its resolved parent and stamp the
stack order into the description. Requires GITHUB_TOKEN.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			return actions.PRAction(ctx)
		},
	}

	return cmd
}
