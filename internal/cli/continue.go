package cli

import (
	"github.com/spf13/cobra"

	"github.com/e111077/baobranch/internal/actions"
	"github.com/e111077/baobranch/internal/runtime"
)

// newContinueCmd creates the continue command
func newContinueCmd() *cobra.Command {
	var addAll bool

	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Resume a conflict-paused evolve",
		Long: `Resume a conflict-paused evolve.

Resolve the conflicted files and stage them first; the paused rebase is
finished and the remaining queue keeps going.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			opts := actions.ContinueOptions{
				AddAll: addAll,
			}
			return actions.ContinueAction(ctx, opts)
		},
	}

	cmd.Flags().BoolVarP(&addAll, "all", "a", false, "Stage all changes before continuing")

	return cmd
}

// newAbortCmd creates the abort command
func newAbortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "abort",
		Short: "Stop a paused evolve, keeping branches already moved",
		Long: `Stop a paused evolve.

Only the in-flight rebase is rolled back; branches the run already moved
stay where they landed.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			return actions.AbortAction(ctx)
		},
	}

	return cmd
}
