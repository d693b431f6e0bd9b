package actions

import (
	"fmt"

	"github.com/e111077/baobranch/internal/config"
	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/runtime"
	"github.com/e111077/baobranch/internal/tui"
)

// PushAction force-pushes the current branch with a lease. Amend and evolve
// rewrite tips as a matter of course, so a plain push would always be
// rejected.
func PushAction(ctx *runtime.Context) error {
	branch := ctx.CurrentBranch
	if branch == "" {
		return bberrors.ErrNotOnBranch
	}
	if ctx.Engine.IsTrunk(branch) {
		return fmt.Errorf("%w: push the trunk with plain git", bberrors.ErrTrunkOperation)
	}

	remote, err := config.GetRemote(ctx.RepoRoot)
	if err != nil {
		return err
	}
	if remote == "" {
		return fmt.Errorf("no remote configured; re-run 'bb init' after adding one")
	}

	if err := git.PushBranch(ctx.Context, remote, branch); err != nil {
		return fmt.Errorf("failed to push %s: %w", branch, err)
	}
	ctx.Splog.Info("Pushed %s to %s.", tui.ColorBranchName(branch, true), remote)
	return nil
}
