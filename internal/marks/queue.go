package marks

import (
	"context"
	"fmt"
	"sort"
)

// Queue is the persisted evolve work queue: an ordered list of pending step
// descriptors plus the branch to restore when the queue drains. Every
// mutation writes through to the Store immediately, so a queue loaded in a
// later process observes exactly the steps the earlier process left behind.
type Queue struct {
	store Store

	Scope        string
	ReturnBranch string
	steps        []EvolveStep
}

// LoadQueue reads any persisted evolve queue from the store. The second
// return value reports whether a queue exists.
func LoadQueue(ctx context.Context, store Store) (*Queue, bool, error) {
	markers, err := store.List(ctx, EvolveGlob)
	if err != nil {
		return nil, false, err
	}

	var steps []EvolveStep
	for name := range markers {
		step, ok := ParseEvolveStep(name)
		if !ok {
			continue
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		// A head marker with no steps is the residue of a run that died
		// between its final step completing and the queue clearing. Nothing
		// else deletes it, so drop it here or the next queue for the same
		// branch can never be created.
		heads, err := store.List(ctx, EvolveHeadGlob)
		if err != nil {
			return nil, false, err
		}
		for name := range heads {
			if err := store.Delete(ctx, name); err != nil {
				return nil, false, err
			}
		}
		return nil, false, nil
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Index < steps[j].Index })

	q := &Queue{store: store, Scope: steps[0].Scope, steps: steps}

	heads, err := store.List(ctx, EvolveHeadGlob)
	if err != nil {
		return nil, false, err
	}
	for name := range heads {
		if head, ok := ParseEvolveHead(name); ok {
			q.ReturnBranch = head.Branch
			break
		}
	}

	return q, true, nil
}

// NewQueue persists a fresh queue for the given scope. It fails if any
// evolve markers already exist.
func NewQueue(ctx context.Context, store Store, scope, returnBranch string) (*Queue, error) {
	if _, exists, err := LoadQueue(ctx, store); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("evolve queue already exists")
	}

	q := &Queue{store: store, Scope: scope, ReturnBranch: returnBranch}
	if returnBranch != "" {
		// The head marker's target is the branch's tip; the branch name
		// itself rides in the marker name.
		head := EvolveHead{Branch: returnBranch}
		if err := store.Create(ctx, head.Name(), returnBranch); err != nil {
			return nil, fmt.Errorf("failed to record evolve head: %w", err)
		}
	}
	return q, nil
}

// Push appends a branch to the queue and persists the step marker at the
// branch's current tip.
func (q *Queue) Push(ctx context.Context, branch string) error {
	step := EvolveStep{Scope: q.Scope, Index: q.nextIndex(), Branch: branch}
	if err := q.store.Create(ctx, step.Name(), branch); err != nil {
		return fmt.Errorf("failed to persist evolve step for %s: %w", branch, err)
	}
	q.steps = append(q.steps, step)
	return nil
}

// Pending returns the steps that have not completed, in index order.
func (q *Queue) Pending() []EvolveStep {
	out := make([]EvolveStep, len(q.steps))
	copy(out, q.steps)
	return out
}

// Contains reports whether a branch is already queued.
func (q *Queue) Contains(branch string) bool {
	for _, step := range q.steps {
		if step.Branch == branch {
			return true
		}
	}
	return false
}

// Complete removes a finished step's marker.
func (q *Queue) Complete(ctx context.Context, step EvolveStep) error {
	if err := q.store.Delete(ctx, step.Name()); err != nil {
		return fmt.Errorf("failed to clear evolve step for %s: %w", step.Branch, err)
	}
	for i, s := range q.steps {
		if s.Index == step.Index {
			q.steps = append(q.steps[:i], q.steps[i+1:]...)
			break
		}
	}
	return nil
}

// Clear deletes every remaining queue marker, including the head record.
func (q *Queue) Clear(ctx context.Context) error {
	for _, step := range q.steps {
		if err := q.store.Delete(ctx, step.Name()); err != nil {
			return err
		}
	}
	q.steps = nil

	heads, err := q.store.List(ctx, EvolveHeadGlob)
	if err != nil {
		return err
	}
	for name := range heads {
		if err := q.store.Delete(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// nextIndex returns one past the highest persisted index. Indexes stay
// unique for the life of the queue even as early steps complete.
func (q *Queue) nextIndex() int {
	next := 0
	for _, step := range q.steps {
		if step.Index >= next {
			next = step.Index + 1
		}
	}
	return next
}
