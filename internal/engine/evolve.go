package engine

import (
	"context"
	"fmt"

	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/marks"
)

// EvolveInProgress reports whether a persisted evolve queue exists.
func (e *Engine) EvolveInProgress(ctx context.Context) (bool, error) {
	_, exists, err := marks.LoadQueue(ctx, e.store)
	return exists, err
}

// PlanEvolve computes the breadth-first processing order for an evolve
// without mutating anything. rootBranch may be "" for a detached HEAD, in
// which case the branch at the HEAD commit is used if one exists, otherwise
// the trunk seeds the plan. The trunk (and a detached root) is never itself
// rebased; only its qualifying children enter the order.
func (e *Engine) PlanEvolve(ctx context.Context, rootBranch string, scope Scope) (*Plan, error) {
	root := rootBranch
	if root == "" {
		head, err := e.git.Head(ctx)
		if err != nil {
			return nil, err
		}
		at, err := e.git.BranchesPointingAt(ctx, head)
		if err != nil {
			return nil, err
		}
		if len(at) > 0 {
			root = pickBranch(at, e.trunk)
		} else {
			root = e.trunk
		}
	}

	if _, err := e.git.ResolveCommit(ctx, root); err != nil {
		return nil, err
	}
	if err := marks.ValidateBranchName(root); err != nil {
		return nil, err
	}

	plan := &Plan{Root: root, Scope: scope, Orphaned: make(map[string]bool)}
	plan.RootSkipped = e.IsTrunk(root)

	if !plan.RootSkipped {
		parent, err := e.ResolveParent(ctx, root)
		if err != nil {
			return nil, err
		}
		plan.Orphaned[root] = parent.Stale
	}

	if scope == ScopeSelf {
		if !plan.RootSkipped {
			plan.Branches = []string{root}
		}
		return plan, nil
	}

	seen := map[string]bool{root: true}
	if !plan.RootSkipped {
		plan.Branches = append(plan.Branches, root)
	}
	queue := []string{root}

	for len(queue) > 0 {
		branch := queue[0]
		queue = queue[1:]

		children, err := e.ResolveChildren(ctx, branch)
		if err != nil {
			return nil, err
		}

		next := children.Current
		if scope == ScopeFull {
			next = append(next, children.Orphaned...)
		}
		orphanAt := make(map[string]bool, len(children.Orphaned))
		for _, name := range children.Orphaned {
			orphanAt[name] = true
		}
		for _, child := range next {
			if seen[child] {
				continue
			}
			seen[child] = true
			if orphanAt[child] {
				plan.Orphaned[child] = true
			}
			plan.Branches = append(plan.Branches, child)
			queue = append(queue, child)
		}
	}

	return plan, nil
}

// StartEvolve persists the plan as progress markers and runs the processing
// loop. currentBranch is the caller's checked-out branch, restored once the
// queue drains; it is threaded explicitly rather than queried ambiently.
func (e *Engine) StartEvolve(ctx context.Context, plan *Plan, currentBranch string) (EvolveState, error) {
	if exists, err := e.EvolveInProgress(ctx); err != nil {
		return EvolveIdle, err
	} else if exists {
		return EvolveIdle, bberrors.ErrEvolveInProgress
	}

	if len(plan.Branches) == 0 {
		return EvolveDone, nil
	}

	queue, err := marks.NewQueue(ctx, e.store, string(plan.Scope), currentBranch)
	if err != nil {
		return EvolveIdle, err
	}
	for _, branch := range plan.Branches {
		if err := queue.Push(ctx, branch); err != nil {
			return EvolveQueued, err
		}
	}

	return e.runQueue(ctx, queue)
}

// ResumeEvolve continues or aborts a paused evolve.
func (e *Engine) ResumeEvolve(ctx context.Context, action ResumeAction) (EvolveState, error) {
	queue, exists, err := marks.LoadQueue(ctx, e.store)
	if err != nil {
		return EvolveIdle, err
	}
	if !exists {
		return EvolveIdle, bberrors.ErrNoEvolveInProgress
	}

	if action == ResumeAbort {
		// Only the in-flight rebase is rolled back; branches already
		// evolved stay evolved.
		if e.git.IsRebaseInProgress(ctx) {
			if err := e.git.RebaseAbort(ctx); err != nil {
				return EvolvePaused, err
			}
		}
		if err := queue.Clear(ctx); err != nil {
			return EvolvePaused, err
		}
		return EvolveAborted, nil
	}

	pending := queue.Pending()
	if len(pending) == 0 {
		return e.finishQueue(ctx, queue)
	}

	if e.git.IsRebaseInProgress(ctx) {
		// Exactly the paused step is continued; its branch ref is still at
		// the old tip, which is what MarkStale needs.
		paused := pending[0]
		state, err := e.finishPausedStep(ctx, queue, paused)
		if err != nil || state == EvolvePaused {
			return state, err
		}
	}

	return e.runQueue(ctx, queue)
}

// finishPausedStep drives the backend's continue-rebase for the step that
// conflicted and completes its bookkeeping.
func (e *Engine) finishPausedStep(ctx context.Context, queue *marks.Queue, step marks.EvolveStep) (EvolveState, error) {
	oldTip, err := e.git.ResolveCommit(ctx, step.Branch)
	if err != nil {
		return EvolvePaused, err
	}
	children, err := e.ResolveChildren(ctx, step.Branch)
	if err != nil {
		return EvolvePaused, err
	}

	result, err := e.git.RebaseContinue(ctx)
	if err != nil {
		return EvolvePaused, err
	}
	if result == git.RebaseConflict {
		return EvolvePaused, nil
	}

	// The rebase ran on a detached HEAD; repoint the branch at the result.
	newTip, err := e.git.Head(ctx)
	if err != nil {
		return EvolvePaused, err
	}
	if err := e.git.UpdateBranchRef(ctx, step.Branch, newTip); err != nil {
		return EvolvePaused, err
	}

	if err := e.MarkStale(ctx, oldTip, step.Branch, len(children.Current) > 0); err != nil {
		return EvolvePaused, err
	}
	if err := queue.Complete(ctx, step); err != nil {
		return EvolvePaused, err
	}
	return EvolveRunning, nil
}

// runQueue processes pending steps in index order until the queue drains or
// a conflict pauses the operation.
func (e *Engine) runQueue(ctx context.Context, queue *marks.Queue) (EvolveState, error) {
	scope := Scope(queue.Scope)

	// Branches being migrated off the trunk all target the trunk tip as it
	// was when processing began; re-deriving it mid-operation would chase a
	// moving target.
	trunkTip, err := e.git.ResolveCommit(ctx, e.trunk)
	if err != nil {
		return EvolveRunning, err
	}

	for {
		pending := queue.Pending()
		if len(pending) == 0 {
			return e.finishQueue(ctx, queue)
		}
		step := pending[0]

		result, err := e.evolveStep(ctx, step, trunkTip)
		if err != nil {
			// Non-conflict failure: fatal, queue markers left intact for
			// inspection.
			return EvolveRunning, err
		}
		if result == git.RebaseConflict {
			return EvolvePaused, nil
		}

		if err := queue.Complete(ctx, step); err != nil {
			return EvolveRunning, err
		}

		// Descendants can become visible only after their parent has been
		// resolved; re-queue any orphan not already planned.
		if scope == ScopeFull {
			children, err := e.ResolveChildren(ctx, step.Branch)
			if err != nil {
				return EvolveRunning, err
			}
			for _, child := range children.Orphaned {
				if queue.Contains(child) {
					continue
				}
				if err := queue.Push(ctx, child); err != nil {
					return EvolveRunning, err
				}
			}
		}
	}
}

// evolveStep rebases one branch onto its currently-resolved parent, keeping
// the staleness lifecycle in step with the move.
func (e *Engine) evolveStep(ctx context.Context, step marks.EvolveStep, trunkTip string) (git.RebaseResult, error) {
	branch := step.Branch

	tip, err := e.git.ResolveCommit(ctx, branch)
	if err != nil {
		return git.RebaseConflict, err
	}
	oldBase, err := e.git.FirstParent(ctx, tip)
	if err != nil {
		return git.RebaseConflict, err
	}

	parent, err := e.ResolveParent(ctx, branch)
	if err != nil {
		return git.RebaseConflict, err
	}

	var target string
	if parent.Name == e.trunk {
		target = trunkTip
	} else {
		target, err = e.git.ResolveCommit(ctx, parent.Name)
		if err != nil {
			return git.RebaseConflict, fmt.Errorf("parent %s of %s vanished: %w", parent.Name, branch, err)
		}
	}

	if oldBase == target {
		// Already sitting on the resolved parent's tip.
		return git.RebaseDone, nil
	}

	// Capture child knowledge before the tip moves; it cannot be recovered
	// afterwards.
	children, err := e.ResolveChildren(ctx, branch)
	if err != nil {
		return git.RebaseConflict, err
	}
	hadLiveChildren := len(children.Current) > 0

	result, err := e.git.RebaseOnto(ctx, branch, target, oldBase)
	if err != nil {
		return git.RebaseConflict, err
	}
	if result == git.RebaseConflict {
		return git.RebaseConflict, nil
	}

	if err := e.MarkStale(ctx, tip, branch, hadLiveChildren); err != nil {
		return git.RebaseConflict, err
	}
	return git.RebaseDone, nil
}

// finishQueue clears the drained queue and restores the caller's original
// checkout.
func (e *Engine) finishQueue(ctx context.Context, queue *marks.Queue) (EvolveState, error) {
	returnBranch := queue.ReturnBranch
	if err := queue.Clear(ctx); err != nil {
		return EvolveRunning, err
	}
	if returnBranch != "" {
		if err := e.git.CheckoutBranch(ctx, returnBranch); err != nil {
			return EvolveDone, fmt.Errorf("evolve finished but failed to restore %s: %w", returnBranch, err)
		}
	}
	return EvolveDone, nil
}
