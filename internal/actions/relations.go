package actions

import (
	"fmt"

	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/runtime"
	"github.com/e111077/baobranch/internal/tui"
)

// ParentAction prints the resolved parent of the named branch, flagging a
// stale (marker-derived) resolution.
func ParentAction(ctx *runtime.Context, branchName string) error {
	branch, err := targetBranch(ctx, branchName)
	if err != nil {
		return err
	}
	if ctx.Engine.IsTrunk(branch) {
		ctx.Splog.Info("%s is the trunk; it has no parent.", tui.ColorTrunk(branch))
		return nil
	}

	parent, err := ctx.Engine.ResolveParent(ctx.Context, branch)
	if err != nil {
		return err
	}
	if parent.Stale {
		ctx.Splog.Info("%s (stale)", tui.ColorStale(parent.Name))
		ctx.Splog.Tip("%s was rewritten since %s branched; run 'bb evolve' to catch up.", parent.Name, branch)
		return nil
	}
	if ctx.Engine.IsTrunk(parent.Name) {
		ctx.Splog.Info("%s", tui.ColorTrunk(parent.Name))
		return nil
	}
	ctx.Splog.Info("%s", tui.ColorBranchName(parent.Name, false))
	return nil
}

// ChildrenAction prints the branches stacked on the named branch, current
// and orphaned separately.
func ChildrenAction(ctx *runtime.Context, branchName string) error {
	branch, err := targetBranch(ctx, branchName)
	if err != nil {
		return err
	}

	children, err := ctx.Engine.ResolveChildren(ctx.Context, branch)
	if err != nil {
		return err
	}
	if len(children.Current) == 0 && len(children.Orphaned) == 0 {
		ctx.Splog.Info("%s has no children.", tui.ColorBranchName(branch, branch == ctx.CurrentBranch))
		return nil
	}

	for _, child := range children.Current {
		ctx.Splog.Info("%s", tui.ColorBranchName(child, child == ctx.CurrentBranch))
	}
	for _, child := range children.Orphaned {
		ctx.Splog.Info("%s (orphaned)", tui.ColorOrphan(child))
	}
	if len(children.Orphaned) > 0 {
		ctx.Splog.Tip("Orphaned children sit on an old tip of %s; 'bb evolve --scope full' moves them.", branch)
	}
	return nil
}

// TreeAction renders the full branch tree from the trunk.
func TreeAction(ctx *runtime.Context) error {
	tree, err := ctx.Engine.BuildTree(ctx.Context)
	if err != nil {
		return fmt.Errorf("failed to build tree: %w", err)
	}
	ctx.Splog.Page(tui.RenderTree(tree, ctx.CurrentBranch))
	if n := tree.OrphanCount(); n > 0 {
		ctx.Splog.Tip("%d orphaned branch(es); run 'bb evolve --scope full' from the trunk.", n)
	}
	return nil
}

// targetBranch resolves an optional branch argument, falling back to the
// checked-out branch.
func targetBranch(ctx *runtime.Context, branchName string) (string, error) {
	if branchName != "" {
		if _, err := ctx.Engine.Git().ResolveCommit(ctx.Context, branchName); err != nil {
			return "", err
		}
		return branchName, nil
	}
	if ctx.CurrentBranch == "" {
		return "", bberrors.ErrNotOnBranch
	}
	return ctx.CurrentBranch, nil
}
