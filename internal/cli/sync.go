package cli

import (
	"github.com/spf13/cobra"

	"github.com/e111077/baobranch/internal/actions"
	"github.com/e111077/baobranch/internal/runtime"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	var noPull bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fast-forward the trunk and refresh its base markers",
		Long: `Fast-forward the trunk from its remote, then re-derive the merge-base
markers that keep branches cut from superseded trunk commits resolvable.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			opts := actions.SyncOptions{
				NoPull: noPull,
			}
			return actions.SyncAction(ctx, opts)
		},
	}

	cmd.Flags().BoolVar(&noPull, "no-pull", false, "Refresh markers without pulling")

	return cmd
}

// newSweepCmd creates the sweep command
func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "sweep",
		Short:        "Delete stale markers no branch depends on anymore",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			return actions.SweepAction(ctx)
		},
	}

	return cmd
}
