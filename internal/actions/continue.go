package actions

import (
	"fmt"

	"github.com/e111077/baobranch/internal/engine"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/runtime"
)

// ContinueOptions contains options for the continue command.
type ContinueOptions struct {
	AddAll bool
}

// ContinueAction resumes a conflict-paused evolve.
func ContinueAction(ctx *runtime.Context, opts ContinueOptions) error {
	if opts.AddAll {
		if err := git.StageAll(ctx.Context); err != nil {
			return fmt.Errorf("failed to stage changes: %w", err)
		}
	}

	if git.IsRebaseInProgress(ctx.Context) {
		unmerged, err := git.GetUnmergedFiles(ctx.Context)
		if err != nil {
			return err
		}
		if len(unmerged) > 0 {
			return fmt.Errorf("unresolved conflicts remain in %d file(s); resolve and 'git add' them first", len(unmerged))
		}
	}

	state, err := ctx.Engine.ResumeEvolve(ctx.Context, engine.ResumeContinue)
	return reportEvolveOutcome(ctx, state, err)
}

// AbortAction abandons a paused evolve. Only the in-flight rebase is rolled
// back; branches already moved stay moved.
func AbortAction(ctx *runtime.Context) error {
	state, err := ctx.Engine.ResumeEvolve(ctx.Context, engine.ResumeAbort)
	return reportEvolveOutcome(ctx, state, err)
}
