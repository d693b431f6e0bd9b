// Package testhelpers provides a throwaway git repository harness for
// integration-style tests.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const textFileName = "test.txt"

// GitRepo wraps a real git repository in a temporary directory.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a fresh repository with a deterministic config and
// a main default branch.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	if err := repo.Git("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.Git("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}
	return repo, nil
}

// Git runs a git command in the repository directory.
func (r *GitRepo) Git(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if os.Getenv("DEBUG") != "" {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// GitOutput runs a git command and returns its trimmed output.
func (r *GitRepo) GitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s failed: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// WriteFile writes a file in the repository and stages it.
func (r *GitRepo) WriteFile(name, content string) error {
	path := filepath.Join(r.Dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return err
	}
	return r.Git("add", path)
}

// Commit stages the named file content and commits it.
func (r *GitRepo) Commit(message string) error {
	return r.Git("commit", "-m", message)
}

// CommitChange writes a change to the default test file and commits it.
func (r *GitRepo) CommitChange(content, message string) error {
	if err := r.WriteFile(textFileName, content); err != nil {
		return err
	}
	return r.Commit(message)
}

// CreateAndCheckoutBranch cuts a branch at the current HEAD.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.Git("checkout", "-b", name)
}

// Checkout switches to an existing branch.
func (r *GitRepo) Checkout(name string) error {
	return r.Git("checkout", name)
}

// Rev resolves a revision to a commit SHA.
func (r *GitRepo) Rev(rev string) (string, error) {
	return r.GitOutput("rev-parse", rev)
}

// CurrentBranch returns the checked-out branch name.
func (r *GitRepo) CurrentBranch() (string, error) {
	return r.GitOutput("branch", "--show-current")
}
