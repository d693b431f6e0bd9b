package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/marks"
)

// amendWithMarker rewrites a branch's tip and records the old tip the way
// the amend command does.
func amendWithMarker(t *testing.T, eng *Engine, g *fakeGit, branch string) {
	t.Helper()
	ctx := context.Background()
	children, err := eng.ResolveChildren(ctx, branch)
	require.NoError(t, err)
	oldTip := g.amend(branch)
	require.NoError(t, eng.MarkStale(ctx, oldTip, branch, len(children.Current) > 0))
}

func TestPlanEvolve(t *testing.T) {
	ctx := context.Background()

	t.Run("self scope is just the root", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))

		plan, err := eng.PlanEvolve(ctx, "a", ScopeSelf)
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, plan.Branches)
	})

	t.Run("directs scope excludes orphans", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("c", g.commit(g.branches["a"]))
		amendWithMarker(t, eng, g, "a")
		g.branchAt("fresh", g.commit(g.branches["a"]))

		plan, err := eng.PlanEvolve(ctx, "a", ScopeDirects)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "fresh"}, plan.Branches)
	})

	t.Run("full scope includes orphans transitively", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("c", g.commit(g.branches["b"]))
		amendWithMarker(t, eng, g, "a")

		plan, err := eng.PlanEvolve(ctx, "a", ScopeFull)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b", "c"}, plan.Branches)
		require.True(t, plan.Orphaned["b"])
		require.False(t, plan.Orphaned["c"], "c still sits on b's live tip")
	})

	t.Run("trunk root is never itself planned", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))

		plan, err := eng.PlanEvolve(ctx, "main", ScopeFull)
		require.NoError(t, err)
		require.True(t, plan.RootSkipped)
		require.Equal(t, []string{"a"}, plan.Branches)
	})

	t.Run("detached head falls back to the owning branch", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.current = ""
		g.head = g.branches["a"]

		plan, err := eng.PlanEvolve(ctx, "", ScopeSelf)
		require.NoError(t, err)
		require.Equal(t, "a", plan.Root)
	})

	t.Run("detached head off any branch seeds from the trunk", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.current = ""
		g.head = g.commit(g.branches["a"]) // anonymous commit

		plan, err := eng.PlanEvolve(ctx, "", ScopeFull)
		require.NoError(t, err)
		require.Equal(t, "main", plan.Root)
		require.True(t, plan.RootSkipped)
	})
}

func TestStartEvolve(t *testing.T) {
	ctx := context.Background()

	t.Run("amended parent pulls the whole chain forward", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("c", g.commit(g.branches["b"]))
		amendWithMarker(t, eng, g, "a")

		plan, err := eng.PlanEvolve(ctx, "a", ScopeFull)
		require.NoError(t, err)
		state, err := eng.StartEvolve(ctx, plan, "a")
		require.NoError(t, err)
		require.Equal(t, EvolveDone, state)

		// Every link is live again: parents resolve without staleness and
		// each tip sits directly on its parent's tip.
		for child, parent := range map[string]string{"a": "main", "b": "a", "c": "b"} {
			resolved, err := eng.ResolveParent(ctx, child)
			require.NoError(t, err)
			require.Equal(t, Branch{Name: parent}, resolved)

			base, err := g.FirstParent(ctx, g.branches[child])
			require.NoError(t, err)
			require.Equal(t, g.branches[parent], base)
		}

		// No marker outlives its last orphan.
		require.Empty(t, mustNames(t, eng), "markers must be swept once children are moved")

		// The caller's checkout is restored.
		require.Equal(t, "a", g.current)
	})

	t.Run("directs never rebases initially orphaned branches", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("stranded", g.commit(g.branches["a"]))
		amendWithMarker(t, eng, g, "a")
		strandedTip := g.branches["stranded"]

		plan, err := eng.PlanEvolve(ctx, "a", ScopeDirects)
		require.NoError(t, err)
		state, err := eng.StartEvolve(ctx, plan, "a")
		require.NoError(t, err)
		require.Equal(t, EvolveDone, state)

		require.Equal(t, strandedTip, g.branches["stranded"], "orphan must not move under directs")
	})

	t.Run("branches above a moved trunk catch up", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		oldTrunk := g.branches["main"]
		g.branchAt("feature", g.commit(oldTrunk))
		g.addCommit("main")
		require.NoError(t, eng.RefreshTrunkMarkers(ctx))

		plan, err := eng.PlanEvolve(ctx, "main", ScopeFull)
		require.NoError(t, err)
		require.Equal(t, []string{"feature"}, plan.Branches)

		state, err := eng.StartEvolve(ctx, plan, "main")
		require.NoError(t, err)
		require.Equal(t, EvolveDone, state)

		base, err := g.FirstParent(ctx, g.branches["feature"])
		require.NoError(t, err)
		require.Equal(t, g.branches["main"], base)
	})

	t.Run("already-placed branches are skipped without rewriting", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		tips := map[string]string{"a": g.branches["a"], "b": g.branches["b"]}

		plan, err := eng.PlanEvolve(ctx, "a", ScopeFull)
		require.NoError(t, err)
		state, err := eng.StartEvolve(ctx, plan, "a")
		require.NoError(t, err)
		require.Equal(t, EvolveDone, state)

		require.Equal(t, tips["a"], g.branches["a"])
		require.Equal(t, tips["b"], g.branches["b"])
	})

	t.Run("refuses to start while one is in progress", func(t *testing.T) {
		eng, g, store := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		queue, err := marks.NewQueue(ctx, store, string(ScopeFull), "a")
		require.NoError(t, err)
		require.NoError(t, queue.Push(ctx, "a"))

		plan, err := eng.PlanEvolve(ctx, "a", ScopeSelf)
		require.NoError(t, err)
		_, err = eng.StartEvolve(ctx, plan, "a")
		require.ErrorIs(t, err, bberrors.ErrEvolveInProgress)
	})

	t.Run("chained rewrites evolve to completion", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("c", g.commit(g.branches["b"]))
		// Two independent rewrites: b's old tip still anchors c.
		amendWithMarker(t, eng, g, "b")
		amendWithMarker(t, eng, g, "a")

		plan, err := eng.PlanEvolve(ctx, "a", ScopeFull)
		require.NoError(t, err)
		state, err := eng.StartEvolve(ctx, plan, "a")
		require.NoError(t, err)
		require.Equal(t, EvolveDone, state)

		resolved, err := eng.ResolveParent(ctx, "c")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "b"}, resolved)
	})
}

func TestEvolveConflictLifecycle(t *testing.T) {
	ctx := context.Background()

	newConflictScene := func(t *testing.T) (*Engine, *fakeGit, *marks.MemStore) {
		eng, g, store := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("c", g.commit(g.branches["b"]))
		amendWithMarker(t, eng, g, "a")
		g.conflictOn["b"] = true
		return eng, g, store
	}

	t.Run("conflict pauses with the queue persisted", func(t *testing.T) {
		eng, g, store := newConflictScene(t)

		plan, err := eng.PlanEvolve(ctx, "a", ScopeFull)
		require.NoError(t, err)
		state, err := eng.StartEvolve(ctx, plan, "c")
		require.NoError(t, err)
		require.Equal(t, EvolvePaused, state)
		require.True(t, g.IsRebaseInProgress(ctx))

		queue, exists, err := marks.LoadQueue(ctx, store)
		require.NoError(t, err)
		require.True(t, exists)
		require.Equal(t, "b", queue.Pending()[0].Branch)
	})

	t.Run("continue finishes the paused step and drains the queue", func(t *testing.T) {
		eng, g, store := newConflictScene(t)

		plan, err := eng.PlanEvolve(ctx, "a", ScopeFull)
		require.NoError(t, err)
		_, err = eng.StartEvolve(ctx, plan, "c")
		require.NoError(t, err)

		state, err := eng.ResumeEvolve(ctx, ResumeContinue)
		require.NoError(t, err)
		require.Equal(t, EvolveDone, state)

		for child, parent := range map[string]string{"b": "a", "c": "b"} {
			base, err := g.FirstParent(ctx, g.branches[child])
			require.NoError(t, err)
			require.Equal(t, g.branches[parent], base)
		}

		_, exists, err := marks.LoadQueue(ctx, store)
		require.NoError(t, err)
		require.False(t, exists, "queue markers must be cleared")
		require.Equal(t, "c", g.current, "original checkout restored")
	})

	t.Run("abort rolls back only the in-flight rebase", func(t *testing.T) {
		eng, g, store := newConflictScene(t)
		oldB := g.branches["b"]

		plan, err := eng.PlanEvolve(ctx, "a", ScopeFull)
		require.NoError(t, err)
		_, err = eng.StartEvolve(ctx, plan, "c")
		require.NoError(t, err)

		state, err := eng.ResumeEvolve(ctx, ResumeAbort)
		require.NoError(t, err)
		require.Equal(t, EvolveAborted, state)
		require.False(t, g.IsRebaseInProgress(ctx))
		require.Equal(t, oldB, g.branches["b"], "conflicted branch stays put")

		_, exists, err := marks.LoadQueue(ctx, store)
		require.NoError(t, err)
		require.False(t, exists)
	})

	t.Run("resume with nothing in progress", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		_, err := eng.ResumeEvolve(ctx, ResumeContinue)
		require.ErrorIs(t, err, bberrors.ErrNoEvolveInProgress)
	})
}

func TestEvolveResumesAcrossProcesses(t *testing.T) {
	ctx := context.Background()

	// A run that dies between steps leaves only the persisted markers
	// behind. A later process must reconstruct the queue from the store and
	// finish exactly the remaining steps, with no rebase in progress to
	// pick up from.
	t.Run("fresh engine finishes the remaining steps", func(t *testing.T) {
		eng, g, store := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("c", g.commit(g.branches["b"]))
		amendWithMarker(t, eng, g, "a")

		// Replay the first process up to its death: queue persisted, step a
		// skipped (already on the trunk tip), step b rebased and completed,
		// step c never started.
		queue, err := marks.NewQueue(ctx, store, string(ScopeFull), "c")
		require.NoError(t, err)
		for _, branch := range []string{"a", "b", "c"} {
			require.NoError(t, queue.Push(ctx, branch))
		}
		require.NoError(t, queue.Complete(ctx, queue.Pending()[0]))

		oldBTip := g.branches["b"]
		result, err := g.RebaseOnto(ctx, "b", g.branches["a"], g.parents[oldBTip])
		require.NoError(t, err)
		require.Equal(t, git.RebaseDone, result)
		require.NoError(t, eng.MarkStale(ctx, oldBTip, "b", true))
		require.NoError(t, queue.Complete(ctx, queue.Pending()[0]))

		// The second process shares nothing with the first but the store
		// and the repository.
		fresh := New(g, store, "main")
		state, err := fresh.ResumeEvolve(ctx, ResumeContinue)
		require.NoError(t, err)
		require.Equal(t, EvolveDone, state)

		parent, err := fresh.ResolveParent(ctx, "c")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "b"}, parent)

		base, err := g.FirstParent(ctx, g.branches["c"])
		require.NoError(t, err)
		require.Equal(t, g.branches["b"], base)

		require.Empty(t, mustNames(t, fresh), "queue and stale markers must be gone")
		require.Equal(t, "c", g.current, "recorded checkout restored")
	})
}

// mustNames returns every marker name in the engine's store.
func mustNames(t *testing.T, eng *Engine) []string {
	t.Helper()
	store, ok := eng.Store().(*marks.MemStore)
	require.True(t, ok)
	return store.Names()
}
