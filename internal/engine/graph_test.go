package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTree(t *testing.T) {
	ctx := context.Background()

	t.Run("nested stacks render under their parents", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		g.branchAt("sibling", g.commit(g.branches["main"]))

		tree, err := eng.BuildTree(ctx)
		require.NoError(t, err)
		require.Equal(t, "main", tree.Name)
		require.Len(t, tree.Children, 2)
		require.Equal(t, "a", tree.Children[0].Name)
		require.Equal(t, "sibling", tree.Children[1].Name)
		require.Len(t, tree.Children[0].Children, 1)
		require.Equal(t, "b", tree.Children[0].Children[0].Name)
		require.Zero(t, tree.OrphanCount())
	})

	t.Run("orphans are flagged beneath their future parent", func(t *testing.T) {
		eng, g, _ := newTestEngine(t)
		g.branchAt("a", g.commit(g.branches["main"]))
		g.branchAt("b", g.commit(g.branches["a"]))
		amendWithMarker(t, eng, g, "a")

		tree, err := eng.BuildTree(ctx)
		require.NoError(t, err)
		require.Len(t, tree.Children, 1)
		a := tree.Children[0]
		require.Len(t, a.Children, 1)
		require.Equal(t, "b", a.Children[0].Name)
		require.True(t, a.Children[0].Orphaned)
		require.Equal(t, 1, tree.OrphanCount())
	})

	t.Run("empty repository is just the trunk", func(t *testing.T) {
		eng, _, _ := newTestEngine(t)

		tree, err := eng.BuildTree(ctx)
		require.NoError(t, err)
		require.Equal(t, "main", tree.Name)
		require.Empty(t, tree.Children)
	})
}
