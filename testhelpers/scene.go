package testhelpers

import (
	"os"
	"testing"

	"github.com/e111077/baobranch/internal/config"
	"github.com/e111077/baobranch/internal/git"
)

// Scene is a test fixture: a temporary repository with an initial commit on
// main, configured as the trunk, with the process working directory and the
// default git runner pointed at it for the duration of the test.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup customizes a scene before the test body runs.
type SceneSetup func(*Scene) error

// NewScene builds a scene and registers its teardown with t.Cleanup.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "baobranch-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}

	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create git repo: %v", err)
	}

	scene := &Scene{Dir: tmpDir, Repo: repo}

	if err := repo.CommitChange("initial", "initial commit"); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to create initial commit: %v", err)
	}

	if err := os.Chdir(tmpDir); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to change directory: %v", err)
	}
	git.SetWorkingDir(tmpDir)

	if err := config.SetTrunk(tmpDir, "main"); err != nil {
		t.Fatalf("failed to write trunk config: %v", err)
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("scene setup failed: %v", err)
		}
	}

	t.Cleanup(func() {
		git.SetWorkingDir("")
		_ = os.Chdir(oldDir)
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(tmpDir)
		}
	})

	return scene
}
