package cli

import (
	"github.com/spf13/cobra"

	"github.com/e111077/baobranch/internal/actions"
	"github.com/e111077/baobranch/internal/runtime"
)

// newParentCmd creates the parent command
func newParentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parent [branch]",
		Short: "Show the resolved parent of a branch",
		Long: `Show the resolved parent of a branch (the current branch by default).

A "(stale)" annotation means the parent has been rewritten since this
branch was cut; the relationship comes from a recorded old tip.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			var branch string
			if len(args) > 0 {
				branch = args[0]
			}
			return actions.ParentAction(ctx, branch)
		},
	}

	return cmd
}

// newChildrenCmd creates the children command
func newChildrenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "children [branch]",
		Short: "Show branches stacked on a branch, orphans included",
		Args:  cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			var branch string
			if len(args) > 0 {
				branch = args[0]
			}
			return actions.ChildrenAction(ctx, branch)
		},
	}

	return cmd
}

// newTreeCmd creates the tree command
func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "tree",
		Short:        "Render the branch tree from the trunk down",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext()
			if err != nil {
				return err
			}
			defer ctx.Close()

			return actions.TreeAction(ctx)
		},
	}

	return cmd
}
