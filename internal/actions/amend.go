package actions

import (
	"fmt"

	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/runtime"
	"github.com/e111077/baobranch/internal/tui"
)

// AmendOptions contains options for the amend command.
type AmendOptions struct {
	StageAll bool
	Message  string
	NoEdit   bool
}

// AmendAction folds the working changes into the current branch's commit.
// The pre-amend tip and its live children are captured first: once the tip
// moves, only the marker laid down here lets those children find their way
// back to this branch.
func AmendAction(ctx *runtime.Context, opts AmendOptions) error {
	branch := ctx.CurrentBranch
	if branch == "" {
		return bberrors.ErrNotOnBranch
	}
	if ctx.Engine.IsTrunk(branch) {
		return fmt.Errorf("%w: amend the trunk with plain git", bberrors.ErrTrunkOperation)
	}

	if opts.StageAll {
		if err := git.StageAll(ctx.Context); err != nil {
			return fmt.Errorf("failed to stage changes: %w", err)
		}
	}
	staged, err := git.HasStagedChanges(ctx.Context)
	if err != nil {
		return err
	}
	if !staged && opts.Message == "" {
		return fmt.Errorf("nothing staged; use -a to stage tracked changes")
	}

	oldTip, err := git.GetRevision(ctx.Context, branch)
	if err != nil {
		return err
	}
	children, err := ctx.Engine.ResolveChildren(ctx.Context, branch)
	if err != nil {
		return fmt.Errorf("failed to resolve children of %s: %w", branch, err)
	}

	if err := git.Amend(ctx.Context, git.AmendOptions{
		Message: opts.Message,
		NoEdit:  opts.NoEdit,
	}); err != nil {
		return fmt.Errorf("failed to amend: %w", err)
	}

	hadLiveChildren := len(children.Current) > 0
	if err := ctx.Engine.MarkStale(ctx.Context, oldTip, branch, hadLiveChildren); err != nil {
		return fmt.Errorf("amended, but failed to record the old tip: %w", err)
	}

	ctx.Splog.Info("Amended %s.", tui.ColorBranchName(branch, true))
	if hadLiveChildren {
		ctx.Splog.Tip("Children of %s are now orphaned; run 'bb evolve' to move them.", branch)
	}
	return nil
}
