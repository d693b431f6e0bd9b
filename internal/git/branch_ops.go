package git

import (
	"context"
	"fmt"
)

// CreateAndCheckoutBranch creates and checks out a new branch
func CreateAndCheckoutBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", "-b", branchName)
	if err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CreateBranchAt creates a branch pointing at a specific commit without
// checking it out.
func CreateBranchAt(ctx context.Context, branchName, commit string) error {
	_, err := RunGitCommandWithContext(ctx, "branch", branchName, commit)
	if err != nil {
		return fmt.Errorf("failed to create branch %s at %s: %w", branchName, commit, err)
	}
	return nil
}

// CheckoutBranch checks out an existing branch
func CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutDetached checks out a revision in detached HEAD state
func CheckoutDetached(ctx context.Context, rev string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", "--detach", rev)
	if err != nil {
		return fmt.Errorf("failed to checkout %s in detached state: %w", rev, err)
	}
	return nil
}

// DeleteBranch deletes a branch
func DeleteBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// UpdateBranchRef updates a branch reference to point to a new commit
func UpdateBranchRef(ctx context.Context, branchName, commitSHA string) error {
	_, err := RunGitCommandWithContext(ctx, "update-ref", "refs/heads/"+branchName, commitSHA)
	if err != nil {
		return fmt.Errorf("failed to update branch ref: %w", err)
	}
	return nil
}

// SoftReset moves the current branch to a revision, leaving the difference
// staged in the index.
func SoftReset(ctx context.Context, revision string) error {
	_, err := RunGitCommandWithContext(ctx, "reset", "--soft", revision)
	if err != nil {
		return fmt.Errorf("failed to soft reset to %s: %w", revision, err)
	}
	return nil
}

// PushBranch force-pushes a branch to the remote using --force-with-lease.
func PushBranch(ctx context.Context, remote, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "push", "--force-with-lease", remote, branchName)
	if err != nil {
		return fmt.Errorf("failed to push %s: %w", branchName, err)
	}
	return nil
}

// PullResult represents the result of pulling trunk
type PullResult int

const (
	// PullDone indicates the pull was successful
	PullDone PullResult = iota
	// PullUnneeded indicates no pull was needed
	PullUnneeded
)

// PullTrunk fast-forward pulls the trunk branch from the remote. The trunk
// must be checked out by the caller.
func PullTrunk(ctx context.Context, remote, trunkName string) (PullResult, error) {
	before, err := GetRevision(ctx, trunkName)
	if err != nil {
		return PullUnneeded, err
	}
	if _, err := RunGitCommandWithContext(ctx, "pull", "--ff-only", remote, trunkName); err != nil {
		return PullUnneeded, err
	}
	after, err := GetRevision(ctx, trunkName)
	if err != nil {
		return PullUnneeded, err
	}
	if before == after {
		return PullUnneeded, nil
	}
	return PullDone, nil
}

// GetRemote returns the configured remote name, defaulting to origin.
func GetRemote() string {
	out, err := RunGitCommand("remote")
	if err != nil || out == "" {
		return "origin"
	}
	// First remote wins; repos with multiple remotes can override via config.
	for i := 0; i < len(out); i++ {
		if out[i] == '\n' {
			return out[:i]
		}
	}
	return out
}

// GetRemoteURL returns the fetch URL of the named remote.
func GetRemoteURL(ctx context.Context, remote string) (string, error) {
	out, err := RunGitCommandWithContext(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("failed to get URL of remote %s: %w", remote, err)
	}
	return out, nil
}
