package actions

import (
	"errors"
	"fmt"

	"github.com/e111077/baobranch/internal/engine"
	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/marks"
	"github.com/e111077/baobranch/internal/runtime"
	"github.com/e111077/baobranch/internal/tui"
)

// EvolveOptions contains options for the evolve command.
type EvolveOptions struct {
	Scope engine.Scope
	Yes   bool
}

// EvolveAction plans the rebase order, shows it for confirmation, and runs
// the queue until it drains or a conflict pauses it.
func EvolveAction(ctx *runtime.Context, opts EvolveOptions) error {
	if inProgress, err := ctx.Engine.EvolveInProgress(ctx.Context); err != nil {
		return err
	} else if inProgress {
		return fmt.Errorf("%w: run 'bb continue' or 'bb abort' first", bberrors.ErrEvolveInProgress)
	}

	plan, err := ctx.Engine.PlanEvolve(ctx.Context, ctx.CurrentBranch, opts.Scope)
	if err != nil {
		return fmt.Errorf("failed to plan evolve: %w", err)
	}

	if len(plan.Branches) == 0 {
		ctx.Splog.Info("Nothing to evolve from %s.", tui.ColorBranchName(plan.Root, plan.Root == ctx.CurrentBranch))
		return nil
	}

	ctx.Splog.Info("Evolving %d branch(es) from %s:",
		len(plan.Branches), tui.ColorBranchName(plan.Root, plan.Root == ctx.CurrentBranch))
	ctx.Splog.Page(tui.RenderPlanTable(plan, plan.Orphaned))

	if !opts.Yes && tui.IsAttended() {
		confirmed, err := tui.PromptConfirm("Proceed?", true)
		if err != nil && !errors.Is(err, tui.ErrInteractiveDisabled) {
			return err
		}
		if err == nil && !confirmed {
			ctx.Splog.Info("Canceled; nothing was touched.")
			return nil
		}
	}

	state, err := ctx.Engine.StartEvolve(ctx.Context, plan, ctx.CurrentBranch)
	return reportEvolveOutcome(ctx, state, err)
}

// reportEvolveOutcome translates an evolve terminal state into user output,
// shared by evolve and continue.
func reportEvolveOutcome(ctx *runtime.Context, state engine.EvolveState, err error) error {
	if err != nil {
		return err
	}

	switch state {
	case engine.EvolveDone:
		ctx.Splog.Info("Evolve complete.")
		return nil
	case engine.EvolvePaused:
		branch := pausedBranch(ctx)
		PrintConflictStatus(ctx.Context, branch, ctx.Splog)
		return fmt.Errorf("evolve paused on %s", branch)
	case engine.EvolveAborted:
		ctx.Splog.Info("Evolve aborted; branches already evolved stay evolved.")
		return nil
	default:
		return fmt.Errorf("evolve stopped in state %s", state)
	}
}

// pausedBranch names the step the queue is parked on.
func pausedBranch(ctx *runtime.Context) string {
	queue, exists, err := marks.LoadQueue(ctx.Context, ctx.Engine.Store())
	if err != nil || !exists {
		return "(unknown)"
	}
	pending := queue.Pending()
	if len(pending) == 0 {
		return "(unknown)"
	}
	return pending[0].Branch
}
