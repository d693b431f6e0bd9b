package git

import (
	"context"
	"fmt"
	"os"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

// RebaseOnto rebases a branch onto a target commit, replaying the commits
// after from (the branch's old base).
//
// The rebase runs on a detached HEAD and the branch ref is updated
// afterwards, so the caller's checkout is restored on success.
func RebaseOnto(ctx context.Context, branchName, onto, from string) (RebaseResult, error) {
	// Save current branch/detached HEAD
	currentBranch, err := GetCurrentBranchName(ctx)
	var currentRev string
	if err != nil || currentBranch == "" {
		currentBranch = ""
		currentRev, _ = RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	}

	branchRev, err := RunGitCommandWithContext(ctx, "rev-parse", branchName)
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to get revision for %s: %w", branchName, err)
	}

	// git rebase --onto <onto> <from> <branchRev>
	// Rebasing the SHA rather than the branch avoids "already used by
	// worktree" errors; the result is a detached HEAD at the new commit.
	_, err = RunGitCommandWithContext(ctx, "rebase", "--onto", onto, from, branchRev)
	if err != nil {
		if IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		// Not a conflict: abort whatever half-state exists and restore.
		_, _ = RunGitCommandWithContext(ctx, "rebase", "--abort")
		restoreCheckout(ctx, currentBranch, currentRev)
		return RebaseConflict, fmt.Errorf("rebase of %s onto %s failed: %w", branchName, onto, err)
	}

	newRev, err := RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
	if err != nil {
		return RebaseConflict, fmt.Errorf("failed to get new revision after rebase: %w", err)
	}

	if err := UpdateBranchRef(ctx, branchName, newRev); err != nil {
		return RebaseConflict, err
	}

	restoreCheckout(ctx, currentBranch, currentRev)
	return RebaseDone, nil
}

func restoreCheckout(ctx context.Context, branch, rev string) {
	if branch != "" {
		if err := CheckoutBranch(ctx, branch); err != nil {
			_ = CheckoutDetached(ctx, branch)
		}
	} else if rev != "" {
		_ = CheckoutDetached(ctx, rev)
	}
}

// IsRebaseInProgress checks if a rebase is currently in progress
func IsRebaseInProgress(ctx context.Context) bool {
	output, err := RunGitCommandWithContext(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return false
	}

	gitDir := output
	if _, err := os.Stat(gitDir + "/rebase-merge"); err == nil {
		return true
	}
	if _, err := os.Stat(gitDir + "/rebase-apply"); err == nil {
		return true
	}
	return false
}

// RebaseContinue continues an in-progress rebase. The caller is expected to
// have resolved and staged any conflicts.
func RebaseContinue(ctx context.Context) (RebaseResult, error) {
	_, err := RunGitCommandWithContext(ctx, "-c", "core.editor=true", "rebase", "--continue")
	if err != nil {
		if IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase continue failed: %w", err)
	}

	return RebaseDone, nil
}

// RebaseAbort aborts an in-progress rebase
func RebaseAbort(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "rebase", "--abort")
	if err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}

// GetUnmergedFiles returns files currently in conflict.
func GetUnmergedFiles(ctx context.Context) ([]string, error) {
	return RunGitCommandLinesWithContext(ctx, "diff", "--name-only", "--diff-filter=U")
}
