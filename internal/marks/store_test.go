package marks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemStore(t *testing.T) {
	ctx := context.Background()

	t.Run("list filters by glob", func(t *testing.T) {
		store := NewMemStore()
		require.NoError(t, store.Create(ctx, "stale-parent--a--0", "c1"))
		require.NoError(t, store.Create(ctx, "merge-base--1", "c2"))
		require.NoError(t, store.Create(ctx, "evolve-head--a", "a"))

		stale, err := store.List(ctx, StaleGlob)
		require.NoError(t, err)
		require.Equal(t, map[string]string{"stale-parent--a--0": "c1"}, stale)

		// The evolve step glob must not pick up head markers.
		steps, err := store.List(ctx, EvolveGlob)
		require.NoError(t, err)
		require.Empty(t, steps)
	})

	t.Run("glob crosses slashes in branch names", func(t *testing.T) {
		// git's for-each-ref glob lets * span path separators, so markers
		// for slash-named branches must stay visible here too.
		store := NewMemStore()
		require.NoError(t, store.Create(ctx, "stale-parent--feature/login--0", "c1"))
		require.NoError(t, store.Create(ctx, "evolve-head--feature/login", "feature/login"))

		stale, err := store.List(ctx, StaleGlob)
		require.NoError(t, err)
		require.Equal(t, map[string]string{"stale-parent--feature/login--0": "c1"}, stale)

		heads, err := store.List(ctx, EvolveHeadGlob)
		require.NoError(t, err)
		require.Len(t, heads, 1)
	})

	t.Run("create rejects duplicates", func(t *testing.T) {
		store := NewMemStore()
		require.NoError(t, store.Create(ctx, "merge-base--1", "c1"))
		require.Error(t, store.Create(ctx, "merge-base--1", "c2"))
	})

	t.Run("resolve missing marker", func(t *testing.T) {
		store := NewMemStore()
		_, err := store.Resolve(ctx, "stale-parent--a--0")
		require.ErrorIs(t, err, ErrMarkerNotFound)
	})

	t.Run("delete missing marker", func(t *testing.T) {
		store := NewMemStore()
		require.ErrorIs(t, store.Delete(ctx, "merge-base--9"), ErrMarkerNotFound)
	})
}
