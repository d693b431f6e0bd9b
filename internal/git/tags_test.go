package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/marks"
	"github.com/e111077/baobranch/testhelpers"
)

func TestTagStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create resolve delete", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		store := git.NewTagStore()

		tip, err := scene.Repo.Rev("HEAD")
		require.NoError(t, err)

		require.NoError(t, store.Create(ctx, "stale-parent--feature--0", tip))

		got, err := store.Resolve(ctx, "stale-parent--feature--0")
		require.NoError(t, err)
		require.Equal(t, tip, got)

		require.NoError(t, store.Delete(ctx, "stale-parent--feature--0"))

		_, err = store.Resolve(ctx, "stale-parent--feature--0")
		require.ErrorIs(t, err, marks.ErrMarkerNotFound)
	})

	t.Run("create refuses to overwrite", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		store := git.NewTagStore()

		tip, err := scene.Repo.Rev("HEAD")
		require.NoError(t, err)

		require.NoError(t, store.Create(ctx, "merge-base--1", tip))
		require.Error(t, store.Create(ctx, "merge-base--1", tip))
	})

	t.Run("list filters by glob", func(t *testing.T) {
		scene := testhelpers.NewScene(t, nil)
		store := git.NewTagStore()

		tip, err := scene.Repo.Rev("HEAD")
		require.NoError(t, err)

		require.NoError(t, store.Create(ctx, "stale-parent--a--0", tip))
		require.NoError(t, store.Create(ctx, "stale-parent--b--0", tip))
		require.NoError(t, store.Create(ctx, "merge-base--1", tip))

		stale, err := store.List(ctx, marks.StaleGlob)
		require.NoError(t, err)
		require.Len(t, stale, 2)
		require.Equal(t, tip, stale["stale-parent--a--0"])
		require.Equal(t, tip, stale["stale-parent--b--0"])

		none, err := store.List(ctx, "evolve--*")
		require.NoError(t, err)
		require.Empty(t, none)
	})
}
