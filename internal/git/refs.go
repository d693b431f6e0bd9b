package git

import (
	"context"
	"fmt"
	"strings"

	bberrors "github.com/e111077/baobranch/internal/errors"
)

// GetRevision resolves a ref expression to a commit SHA.
func GetRevision(ctx context.Context, rev string) (string, error) {
	sha, err := RunGitCommandWithContext(ctx, "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", bberrors.NewBranchNotFoundError(rev)
	}
	return sha, nil
}

// GetFirstParent returns the first-parent predecessor of a commit, or ""
// when the commit is a root commit.
func GetFirstParent(ctx context.Context, commit string) (string, error) {
	sha, err := RunGitCommandWithContext(ctx, "rev-parse", "--verify", "--quiet", commit+"^")
	if err != nil {
		// Distinguish "no parent" from a bad commit: re-resolve the commit itself.
		if _, cerr := RunGitCommandWithContext(ctx, "rev-parse", "--verify", commit+"^{commit}"); cerr != nil {
			return "", cerr
		}
		return "", nil
	}
	return sha, nil
}

// BranchesPointingAt returns the live branches whose tip equals the given
// commit. The detached HEAD pseudo-ref is never included.
func BranchesPointingAt(ctx context.Context, commit string) ([]string, error) {
	lines, err := RunGitCommandLinesWithContext(ctx,
		"for-each-ref", "--points-at", commit, "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, err
	}
	return filterBranchNames(lines), nil
}

// BranchesContaining returns the live branches whose history contains the
// given commit.
func BranchesContaining(ctx context.Context, commit string) ([]string, error) {
	lines, err := RunGitCommandLinesWithContext(ctx,
		"branch", "--contains", commit, "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return filterBranchNames(lines), nil
}

// filterBranchNames drops empty entries and the synthetic detached-HEAD
// pseudo-ref that git prints for branch listings.
func filterBranchNames(lines []string) []string {
	names := make([]string, 0, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if strings.HasPrefix(name, "(HEAD detached") || strings.HasPrefix(name, "(no branch") {
			continue
		}
		names = append(names, name)
	}
	return names
}

// GetCurrentBranchName returns the checked-out branch, or "" when HEAD is
// detached.
func GetCurrentBranchName(ctx context.Context) (string, error) {
	out, err := RunGitCommandWithContext(ctx, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	return out, nil
}

// GetPreviousHead returns where HEAD pointed one reflog entry ago. Used by
// unamend to recover the pre-amend tip.
func GetPreviousHead(ctx context.Context) (string, error) {
	sha, err := RunGitCommandWithContext(ctx, "rev-parse", "--verify", "HEAD@{1}")
	if err != nil {
		return "", fmt.Errorf("no previous HEAD position in reflog: %w", err)
	}
	return sha, nil
}
