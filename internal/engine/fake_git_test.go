package engine

import (
	"context"
	"fmt"
	"sort"

	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/git"
)

// fakeGit is an in-memory backend over a synthetic first-parent commit
// graph. Rebases are simulated by replaying the moved chain as fresh commit
// ids; a branch listed in conflictOn pauses its next rebase the way a real
// conflict would.
type fakeGit struct {
	parents    map[string]string // commit -> first parent, "" for a root
	branches   map[string]string // branch -> tip commit
	current    string            // checked-out branch, "" when detached
	head       string            // detached HEAD commit when current == ""
	nextID     int
	conflictOn map[string]bool
	pending    *pendingRebase
	checkouts  []string
}

type pendingRebase struct {
	branch, onto, from string
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		parents:    make(map[string]string),
		branches:   make(map[string]string),
		conflictOn: make(map[string]bool),
	}
}

// commit appends a synthetic commit onto parent and returns its id.
func (g *fakeGit) commit(parent string) string {
	g.nextID++
	id := fmt.Sprintf("c%d", g.nextID)
	g.parents[id] = parent
	return id
}

// branchAt cuts a branch pointing at an existing commit.
func (g *fakeGit) branchAt(name, commit string) {
	g.branches[name] = commit
}

// addCommit creates a commit on top of a branch's tip and advances the
// branch to it.
func (g *fakeGit) addCommit(branch string) string {
	id := g.commit(g.branches[branch])
	g.branches[branch] = id
	return id
}

// amend simulates rewriting a branch's tip: a fresh commit replaces the old
// one on the same base. Returns the old tip.
func (g *fakeGit) amend(branch string) string {
	old := g.branches[branch]
	g.branches[branch] = g.commit(g.parents[old])
	return old
}

func (g *fakeGit) ResolveCommit(_ context.Context, rev string) (string, error) {
	if tip, ok := g.branches[rev]; ok {
		return tip, nil
	}
	if _, ok := g.parents[rev]; ok {
		return rev, nil
	}
	return "", bberrors.NewBranchNotFoundError(rev)
}

func (g *fakeGit) Head(_ context.Context) (string, error) {
	if g.current != "" {
		return g.branches[g.current], nil
	}
	if g.head == "" {
		return "", fmt.Errorf("no HEAD")
	}
	return g.head, nil
}

func (g *fakeGit) FirstParent(_ context.Context, commit string) (string, error) {
	parent, ok := g.parents[commit]
	if !ok {
		return "", fmt.Errorf("unknown commit %s", commit)
	}
	return parent, nil
}

func (g *fakeGit) BranchesPointingAt(_ context.Context, commit string) ([]string, error) {
	var names []string
	for name, tip := range g.branches {
		if tip == commit {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (g *fakeGit) BranchesContaining(_ context.Context, commit string) ([]string, error) {
	var names []string
	for name, tip := range g.branches {
		if g.contains(tip, commit) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (g *fakeGit) contains(tip, commit string) bool {
	for cur := tip; cur != ""; cur = g.parents[cur] {
		if cur == commit {
			return true
		}
	}
	return false
}

func (g *fakeGit) AllBranches(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(g.branches))
	for name := range g.branches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (g *fakeGit) CurrentBranch(_ context.Context) (string, error) {
	return g.current, nil
}

func (g *fakeGit) MergeBase(ctx context.Context, a, b string) (string, error) {
	tipA, err := g.ResolveCommit(ctx, a)
	if err != nil {
		return "", err
	}
	tipB, err := g.ResolveCommit(ctx, b)
	if err != nil {
		return "", err
	}

	inB := make(map[string]bool)
	for cur := tipB; cur != ""; cur = g.parents[cur] {
		inB[cur] = true
	}
	for cur := tipA; cur != ""; cur = g.parents[cur] {
		if inB[cur] {
			return cur, nil
		}
	}
	return "", fmt.Errorf("no merge base between %s and %s", a, b)
}

// chainAbove collects the commits between from (exclusive) and tip
// (inclusive), oldest first.
func (g *fakeGit) chainAbove(tip, from string) ([]string, error) {
	var chain []string
	for cur := tip; cur != from; cur = g.parents[cur] {
		if cur == "" {
			return nil, fmt.Errorf("%s is not an ancestor of %s", from, tip)
		}
		chain = append([]string{cur}, chain...)
	}
	return chain, nil
}

// replay copies a chain of commits onto a new base and returns the new tip.
func (g *fakeGit) replay(chain []string, onto string) string {
	tip := onto
	for range chain {
		tip = g.commit(tip)
	}
	return tip
}

func (g *fakeGit) RebaseOnto(_ context.Context, branch, onto, from string) (git.RebaseResult, error) {
	tip, ok := g.branches[branch]
	if !ok {
		return git.RebaseConflict, bberrors.NewBranchNotFoundError(branch)
	}
	chain, err := g.chainAbove(tip, from)
	if err != nil {
		return git.RebaseConflict, err
	}

	if g.conflictOn[branch] {
		delete(g.conflictOn, branch)
		g.pending = &pendingRebase{branch: branch, onto: onto, from: from}
		return git.RebaseConflict, nil
	}

	g.branches[branch] = g.replay(chain, onto)
	return git.RebaseDone, nil
}

func (g *fakeGit) RebaseContinue(_ context.Context) (git.RebaseResult, error) {
	if g.pending == nil {
		return git.RebaseConflict, fmt.Errorf("no rebase in progress")
	}
	chain, err := g.chainAbove(g.branches[g.pending.branch], g.pending.from)
	if err != nil {
		return git.RebaseConflict, err
	}

	// The continued rebase finishes on a detached HEAD; the caller is
	// responsible for repointing the branch ref.
	g.head = g.replay(chain, g.pending.onto)
	g.current = ""
	g.pending = nil
	return git.RebaseDone, nil
}

func (g *fakeGit) RebaseAbort(_ context.Context) error {
	if g.pending == nil {
		return fmt.Errorf("no rebase in progress")
	}
	g.pending = nil
	return nil
}

func (g *fakeGit) IsRebaseInProgress(_ context.Context) bool {
	return g.pending != nil
}

func (g *fakeGit) UpdateBranchRef(_ context.Context, branch, commit string) error {
	if _, ok := g.parents[commit]; !ok {
		return fmt.Errorf("unknown commit %s", commit)
	}
	g.branches[branch] = commit
	return nil
}

func (g *fakeGit) CheckoutBranch(_ context.Context, branch string) error {
	if _, ok := g.branches[branch]; !ok {
		return bberrors.NewBranchNotFoundError(branch)
	}
	g.current = branch
	g.checkouts = append(g.checkouts, branch)
	return nil
}
