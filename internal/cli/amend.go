package cli

import (
	"github.com/spf13/cobra"

	"github.com/e111077/baobranch/internal/actions"
	"github.com/e111077/baobranch/internal/runtime"
)

// newAmendCmd creates the amend command
func newAmendCmd() *cobra.Command {
	var (
		stageAll bool
		message  string
		noEdit   bool
	)

	cmd := &cobra.Command{
		Use:   "amend",
		Short: "Fold staged changes into the current branch's commit",
		Long: `Fold staged changes into the current branch's commit.

The old tip is recorded so descendants that were stacked on it stay
findable; run 'bb evolve' afterwards to move them onto the new tip.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			opts := actions.AmendOptions{
				StageAll: stageAll,
				Message:  message,
				NoEdit:   noEdit,
			}
			return actions.AmendAction(ctx, opts)
		},
	}

	cmd.Flags().BoolVarP(&stageAll, "all", "a", false, "Stage all tracked changes before amending")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Replace the commit message")
	cmd.Flags().BoolVar(&noEdit, "no-edit", false, "Keep the existing commit message")

	return cmd
}
