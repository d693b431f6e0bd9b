package actions

import (
	"fmt"

	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/marks"
	"github.com/e111077/baobranch/internal/runtime"
	"github.com/e111077/baobranch/internal/tui"
)

// UnamendAction restores the tip the current branch had before the last
// amend, read from the reflog. The reset is soft so the amended delta lands
// back in the index instead of vanishing.
func UnamendAction(ctx *runtime.Context) error {
	branch := ctx.CurrentBranch
	if branch == "" {
		return bberrors.ErrNotOnBranch
	}
	if ctx.Engine.IsTrunk(branch) {
		return fmt.Errorf("%w: nothing to unamend on the trunk", bberrors.ErrTrunkOperation)
	}

	tip, err := git.GetRevision(ctx.Context, branch)
	if err != nil {
		return err
	}
	previous, err := git.GetPreviousHead(ctx.Context)
	if err != nil {
		return fmt.Errorf("no previous tip recorded for %s: %w", branch, err)
	}
	if previous == tip {
		return fmt.Errorf("nothing to unamend: the reflog points at the current tip")
	}

	if err := git.SoftReset(ctx.Context, previous); err != nil {
		return fmt.Errorf("failed to restore %s: %w", previous, err)
	}

	// Any stale marker laid down for the restored commit is redundant now
	// that the branch tip is live there again.
	if err := dropOwnStaleMarkers(ctx, branch, previous); err != nil {
		return err
	}

	ctx.Splog.Info("Restored %s to %s; the amended changes are staged.",
		tui.ColorBranchName(branch, true), previous[:7])
	return nil
}

func dropOwnStaleMarkers(ctx *runtime.Context, branch, commit string) error {
	store := ctx.Engine.Store()
	markers, err := store.List(ctx.Context, marks.StaleGlob)
	if err != nil {
		return err
	}
	for name, target := range markers {
		marker, ok := marks.ParseStaleParent(name)
		if !ok || marker.Branch != branch || target != commit {
			continue
		}
		if err := store.Delete(ctx.Context, name); err != nil {
			return fmt.Errorf("failed to drop marker %s: %w", name, err)
		}
	}
	return nil
}
