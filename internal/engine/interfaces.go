package engine

import (
	"context"

	"github.com/e111077/baobranch/internal/git"
)

// Git is the narrow slice of the VCS backend the engine depends on. The real
// implementation shells out to git; tests provide an in-memory fake with a
// synthetic commit graph.
type Git interface {
	// ResolveCommit resolves a ref expression to a commit SHA.
	ResolveCommit(ctx context.Context, rev string) (string, error)

	// Head returns the commit HEAD points at.
	Head(ctx context.Context) (string, error)

	// FirstParent returns a commit's first-parent predecessor, or "" for a
	// root commit.
	FirstParent(ctx context.Context, commit string) (string, error)

	// BranchesPointingAt returns live branches whose tip equals the commit.
	// Never includes the detached-HEAD pseudo-ref.
	BranchesPointingAt(ctx context.Context, commit string) ([]string, error)

	// BranchesContaining returns live branches whose history contains the
	// commit.
	BranchesContaining(ctx context.Context, commit string) ([]string, error)

	// AllBranches returns every live branch name.
	AllBranches(ctx context.Context) ([]string, error)

	// CurrentBranch returns the checked-out branch, or "" when detached.
	CurrentBranch(ctx context.Context) (string, error)

	// MergeBase returns the merge base of two refs.
	MergeBase(ctx context.Context, a, b string) (string, error)

	// RebaseOnto rebases branch onto the target commit, replaying commits
	// after from. On success the branch ref is updated; on conflict the
	// rebase is left in progress.
	RebaseOnto(ctx context.Context, branch, onto, from string) (git.RebaseResult, error)

	// RebaseContinue continues an in-progress rebase.
	RebaseContinue(ctx context.Context) (git.RebaseResult, error)

	// RebaseAbort aborts an in-progress rebase.
	RebaseAbort(ctx context.Context) error

	// IsRebaseInProgress reports whether a rebase is paused on a conflict.
	IsRebaseInProgress(ctx context.Context) bool

	// UpdateBranchRef repoints a branch at a commit.
	UpdateBranchRef(ctx context.Context, branch, commit string) error

	// CheckoutBranch checks out a branch.
	CheckoutBranch(ctx context.Context, branch string) error
}
