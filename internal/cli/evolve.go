package cli

import (
	"github.com/spf13/cobra"

	"github.com/e111077/baobranch/internal/actions"
	"github.com/e111077/baobranch/internal/engine"
	"github.com/e111077/baobranch/internal/runtime"
)

// newEvolveCmd creates the evolve command
func newEvolveCmd() *cobra.Command {
	var (
		scope string
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "Rebase descendants onto their parents' current tips",
		Long: `Rebase descendants onto their parents' current tips, breadth-first.

Scopes:
  self     only the current branch
  directs  the current branch and branches currently stacked on it
  full     everything below the current branch, orphans included

Conflicts pause the run; 'bb continue' resumes it and 'bb abort' stops it
without undoing branches already moved.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := engine.ParseScope(scope)
			if err != nil {
				return err
			}

			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			opts := actions.EvolveOptions{
				Scope: parsed,
				Yes:   yes,
			}
			return actions.EvolveAction(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "full", "How far to evolve: self, directs, or full")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}
