package git

import (
	"context"
)

// Backend adapts the package-level git functions to the narrow interface the
// engine consumes.
type Backend struct{}

// NewBackend returns the standard git-backed implementation.
func NewBackend() *Backend {
	return &Backend{}
}

// ResolveCommit resolves a ref expression to a commit SHA.
func (b *Backend) ResolveCommit(ctx context.Context, rev string) (string, error) {
	return GetRevision(ctx, rev)
}

// Head returns the commit HEAD points at.
func (b *Backend) Head(ctx context.Context) (string, error) {
	return RunGitCommandWithContext(ctx, "rev-parse", "HEAD")
}

// FirstParent returns a commit's first-parent predecessor.
func (b *Backend) FirstParent(ctx context.Context, commit string) (string, error) {
	return GetFirstParent(ctx, commit)
}

// BranchesPointingAt returns live branches whose tip equals the commit.
func (b *Backend) BranchesPointingAt(ctx context.Context, commit string) ([]string, error) {
	return BranchesPointingAt(ctx, commit)
}

// BranchesContaining returns live branches containing the commit.
func (b *Backend) BranchesContaining(ctx context.Context, commit string) ([]string, error) {
	return BranchesContaining(ctx, commit)
}

// AllBranches returns every live branch name.
func (b *Backend) AllBranches(ctx context.Context) ([]string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetBranchNames()
}

// CurrentBranch returns the checked-out branch, or "" when detached.
func (b *Backend) CurrentBranch(ctx context.Context) (string, error) {
	return GetCurrentBranchName(ctx)
}

// MergeBase returns the merge base of two branches.
func (b *Backend) MergeBase(ctx context.Context, branch1, branch2 string) (string, error) {
	return GetMergeBase(branch1, branch2)
}

// RebaseOnto rebases branch onto target, replaying commits after from.
func (b *Backend) RebaseOnto(ctx context.Context, branch, onto, from string) (RebaseResult, error) {
	return RebaseOnto(ctx, branch, onto, from)
}

// RebaseContinue continues an in-progress rebase.
func (b *Backend) RebaseContinue(ctx context.Context) (RebaseResult, error) {
	return RebaseContinue(ctx)
}

// RebaseAbort aborts an in-progress rebase.
func (b *Backend) RebaseAbort(ctx context.Context) error {
	return RebaseAbort(ctx)
}

// IsRebaseInProgress reports whether a rebase is paused.
func (b *Backend) IsRebaseInProgress(ctx context.Context) bool {
	return IsRebaseInProgress(ctx)
}

// UpdateBranchRef repoints a branch at a commit.
func (b *Backend) UpdateBranchRef(ctx context.Context, branch, commit string) error {
	return UpdateBranchRef(ctx, branch, commit)
}

// CheckoutBranch checks out a branch.
func (b *Backend) CheckoutBranch(ctx context.Context, branch string) error {
	return CheckoutBranch(ctx, branch)
}
