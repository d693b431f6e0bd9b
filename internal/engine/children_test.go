package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/e111077/baobranch/internal/marks"
)

func TestResolveChildren(t *testing.T) {
	ctx := context.Background()

	t.Run("direct children only, grandchildren excluded", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("c", g.commit(g.branches["b"]))

		children, err := eng.ResolveChildren(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, []string{"b"}, children.Current)
		require.Empty(t, children.Orphaned)
	})

	t.Run("siblings are both children", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("c", g.commit(g.branches["a"]))

		children, err := eng.ResolveChildren(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, []string{"b", "c"}, children.Current)
	})

	t.Run("orphans surface through stale markers", func(t *testing.T) {
		eng, g, store := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))

		oldTip := g.amend("a")
		require.NoError(t, store.Create(ctx, marks.StaleParent{Branch: "a", Seq: 0}.Name(), oldTip))

		children, err := eng.ResolveChildren(ctx, "a")
		require.NoError(t, err)
		require.Empty(t, children.Current)
		require.Equal(t, []string{"b"}, children.Orphaned)
	})

	t.Run("mixed current and orphaned children", func(t *testing.T) {
		eng, g, store := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("old-child", g.commit(g.branches["a"]))

		oldTip := g.amend("a")
		require.NoError(t, store.Create(ctx, marks.StaleParent{Branch: "a", Seq: 0}.Name(), oldTip))
		g.branchAt("new-child", g.commit(g.branches["a"]))

		children, err := eng.ResolveChildren(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, []string{"new-child"}, children.Current)
		require.Equal(t, []string{"old-child"}, children.Orphaned)
	})

	t.Run("trunk children include merge-base orphans", func(t *testing.T) {
		eng, g, store := newTestEngine(t)
		oldTrunk := g.branches["main"]
		g.branchAt("feature", g.commit(oldTrunk))

		g.branchAt("main", g.commit(""))
		require.NoError(t, store.Create(ctx, marks.MergeBase{Seq: 1}.Name(), oldTrunk))

		children, err := eng.ResolveChildren(ctx, "main")
		require.NoError(t, err)
		require.Empty(t, children.Current)
		require.Equal(t, []string{"feature"}, children.Orphaned)
	})

	t.Run("no children", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))

		children, err := eng.ResolveChildren(ctx, "a")
		require.NoError(t, err)
		require.Empty(t, children.Current)
		require.Empty(t, children.Orphaned)
	})

	t.Run("parent-child duality", func(t *testing.T) {
		eng, g, store := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("c", g.commit(g.branches["b"]))
		oldTip := g.amend("b")
		require.NoError(t, store.Create(ctx, marks.StaleParent{Branch: "b", Seq: 0}.Name(), oldTip))

		for _, branch := range []string{"a", "b", "c"} {
			children, err := eng.ResolveChildren(ctx, branch)
			require.NoError(t, err)
			for _, child := range append(children.Current, children.Orphaned...) {
				parent, err := eng.ResolveParent(ctx, child)
				require.NoError(t, err)
				require.Equal(t, branch, parent.Name, "child %s of %s must resolve back", child, branch)
			}
		}
	})
}
