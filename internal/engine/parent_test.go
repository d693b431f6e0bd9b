package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/e111077/baobranch/internal/cache"
	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/marks"
)

// newTestEngine wires a fake backend and an in-memory marker store around a
// trunk named main with one initial commit.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *fakeGit, *marks.MemStore) {
	t.Helper()
	g := newFakeGit()
	root := g.commit("")
	g.branchAt("main", root)
	g.current = "main"
	store := marks.NewMemStore()
	return New(g, store, "main", opts...), g, store
}

func TestResolveParent(t *testing.T) {
	ctx := context.Background()

	t.Run("live parent one level down", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))

		parent, err := eng.ResolveParent(ctx, "b")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "a"}, parent)
	})

	t.Run("branch cut from trunk tip", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))

		parent, err := eng.ResolveParent(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "main"}, parent)
	})

	t.Run("root commit descends from trunk", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("orphan-root", g.commit(""))

		parent, err := eng.ResolveParent(ctx, "orphan-root")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "main"}, parent)
	})

	t.Run("stale marker names the rewritten parent", func(t *testing.T) {
		eng, g, store := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))

		oldTip := g.amend("a")
		marker := marks.StaleParent{Branch: "a", Seq: 0}
		require.NoError(t, store.Create(ctx, marker.Name(), oldTip))

		parent, err := eng.ResolveParent(ctx, "b")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "a", Stale: true}, parent)
	})

	t.Run("walks past unowned intermediate commits", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		middle := g.commit(g.branches["a"]) // no branch, no marker
		g.branchAt("b", g.commit(middle))

		parent, err := eng.ResolveParent(ctx, "b")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "a"}, parent)
	})

	t.Run("merge-base marker resolves to stale trunk", func(t *testing.T) {
		eng, g, store := newTestEngine(t)
		oldTrunk := g.branches["main"]
		g.branchAt("feature", g.commit(oldTrunk))

		// Trunk was rewritten past the point feature was cut from.
		g.branchAt("main", g.commit(""))
		marker := marks.MergeBase{Seq: 1}
		require.NoError(t, store.Create(ctx, marker.Name(), oldTrunk))

		parent, err := eng.ResolveParent(ctx, "feature")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "main", Stale: true}, parent)
	})

	t.Run("prefers trunk when several branches share the tip", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("alias", g.branches["main"])
		g.branchAt("a", g.commit(g.branches["main"]))

		parent, err := eng.ResolveParent(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "main"}, parent)
	})

	t.Run("ties between non-trunk branches break alphabetically", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		shared := g.commit(g.branches["main"])
		g.branchAt("zeta", shared)
		g.branchAt("alpha", shared)
		g.branchAt("child", g.commit(shared))

		parent, err := eng.ResolveParent(ctx, "child")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "alpha"}, parent)
	})

	t.Run("walk is bounded", func(t *testing.T) {
		eng, g, _ := newTestEngine(t, WithMaxParentWalk(3))
		cur := g.branches["main"]
		for i := 0; i < 10; i++ {
			cur = g.commit(cur)
		}
		// Strand the chain: main is rewound so nothing owns the commits.
		g.branchAt("main", g.commit(""))
		g.branchAt("deep", g.commit(cur))

		_, err := eng.ResolveParent(ctx, "deep")
		require.Error(t, err)
		require.Contains(t, err.Error(), "exceeded")
	})

	t.Run("unknown branch is an error", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		_, err := eng.ResolveParent(ctx, "ghost")
		require.ErrorIs(t, err, bberrors.ErrBranchNotFound)
	})

	t.Run("highest sequence wins among a branch's markers", func(t *testing.T) {
		eng, g, store := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))

		// Two rewrites of a, both markers landing on b's base commit can
		// only happen via unamend cycles; resolution must stay stable.
		oldTip := g.amend("a")
		require.NoError(t, store.Create(ctx, marks.StaleParent{Branch: "a", Seq: 0}.Name(), oldTip))
		require.NoError(t, store.Create(ctx, marks.StaleParent{Branch: "a", Seq: 1}.Name(), oldTip))

		parent, err := eng.ResolveParent(ctx, "b")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "a", Stale: true}, parent)
	})

	t.Run("hinted resolution tracks branch precedence", func(t *testing.T) {
		db, err := cache.Open(t.TempDir())
		require.NoError(t, err)
		defer db.Close()

		eng, g, _ := newTestEngine(t, WithHintCache(db))
		g.branchAt("zeta", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["zeta"]))

		// First resolution records zeta as the hinted owner.
		parent, err := eng.ResolveParent(ctx, "b")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "zeta"}, parent)

		// A second branch arrives at the hinted commit. Resolution through
		// the hint must agree with a cold resolution, which prefers the
		// alphabetically first name.
		g.branchAt("alpha", g.branches["zeta"])

		parent, err = eng.ResolveParent(ctx, "b")
		require.NoError(t, err)
		require.Equal(t, Branch{Name: "alpha"}, parent)
	})
}
