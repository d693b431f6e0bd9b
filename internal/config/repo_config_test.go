package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newRepoRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0755))
	return root
}

func TestRepoConfig(t *testing.T) {
	t.Run("trunk round trip", func(t *testing.T) {
		root := newRepoRoot(t)
		require.NoError(t, SetTrunk(root, "main"))

		trunk, err := GetTrunk(root)
		require.NoError(t, err)
		require.Equal(t, "main", trunk)
	})

	t.Run("unconfigured trunk errors", func(t *testing.T) {
		root := newRepoRoot(t)
		_, err := GetTrunk(root)
		require.ErrorContains(t, err, "trunk not configured")
	})

	t.Run("remote defaults to empty", func(t *testing.T) {
		root := newRepoRoot(t)
		remote, err := GetRemote(root)
		require.NoError(t, err)
		require.Empty(t, remote)
	})

	t.Run("remote survives trunk update", func(t *testing.T) {
		root := newRepoRoot(t)
		require.NoError(t, SetRemote(root, "origin"))
		require.NoError(t, SetTrunk(root, "master"))

		remote, err := GetRemote(root)
		require.NoError(t, err)
		require.Equal(t, "origin", remote)

		trunk, err := GetTrunk(root)
		require.NoError(t, err)
		require.Equal(t, "master", trunk)
	})

	t.Run("initialized only once trunk is set", func(t *testing.T) {
		root := newRepoRoot(t)
		require.False(t, IsInitialized(root))
		require.NoError(t, SetTrunk(root, "main"))
		require.True(t, IsInitialized(root))
	})

	t.Run("corrupt config file is an error", func(t *testing.T) {
		root := newRepoRoot(t)
		path := filepath.Join(root, ".git", ".baobranch_config")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

		_, err := GetRepoConfig(root)
		require.ErrorContains(t, err, "failed to parse repo config")
	})
}
