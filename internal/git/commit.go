package git

import (
	"context"
	"fmt"
)

// AmendOptions contains options for amending the current commit
type AmendOptions struct {
	StageAll bool
	Message  string
	NoEdit   bool
}

// Amend amends the current branch's commit with the staged changes.
func Amend(ctx context.Context, opts AmendOptions) error {
	if opts.StageAll {
		if err := StageAll(ctx); err != nil {
			return err
		}
	}

	args := []string{"commit", "--amend"}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	} else if opts.NoEdit {
		args = append(args, "--no-edit")
	} else {
		// Without a message the user's editor drives the commit.
		return RunGitCommandInteractive(args...)
	}

	_, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to amend commit: %w", err)
	}
	return nil
}

// StageAll stages all changes including untracked files
func StageAll(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "add", "-A")
	if err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// HasStagedChanges checks if there are staged changes
func HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := RunGitCommandWithContext(ctx, "diff", "--cached", "--quiet")
	if err != nil {
		// diff --quiet exits 1 when there are differences
		return true, nil
	}
	return false, nil
}

// HasUnstagedChanges checks if there are unstaged changes
func HasUnstagedChanges(ctx context.Context) (bool, error) {
	_, err := RunGitCommandWithContext(ctx, "diff", "--quiet")
	if err != nil {
		return true, nil
	}
	return false, nil
}

// ChangedFiles returns the files touched by a single commit.
func ChangedFiles(ctx context.Context, commit string) ([]string, error) {
	return RunGitCommandLinesWithContext(ctx,
		"diff-tree", "--no-commit-id", "--name-only", "-r", commit)
}

// CommitPaths commits only the given paths from another commit's tree onto
// the current HEAD. Used by split to carve one commit into several.
func CommitPaths(ctx context.Context, sourceCommit, message string, paths []string) error {
	args := append([]string{"checkout", sourceCommit, "--"}, paths...)
	if _, err := RunGitCommandWithContext(ctx, args...); err != nil {
		return fmt.Errorf("failed to stage paths from %s: %w", sourceCommit, err)
	}
	if _, err := RunGitCommandWithContext(ctx, "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit paths: %w", err)
	}
	return nil
}

// GetCommitSubject returns the subject line of a commit message.
func GetCommitSubject(ctx context.Context, commit string) (string, error) {
	return RunGitCommandWithContext(ctx, "log", "-1", "--format=%s", commit)
}
