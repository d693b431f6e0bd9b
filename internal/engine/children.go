package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/e111077/baobranch/internal/marks"
)

// ResolveChildren determines every branch whose immediate ancestor commit is
// this branch's current tip (current children) or one of its recorded stale
// tips (orphaned children).
//
// Containment alone is not proof of childhood: a grandchild also contains
// the tip. Each candidate's parent is therefore re-resolved and the
// candidate kept only when that resolution confirms this branch, the
// confirming queries running concurrently under the engine's worker bound.
func (e *Engine) ResolveChildren(ctx context.Context, branchName string) (Children, error) {
	tip, err := e.git.ResolveCommit(ctx, branchName)
	if err != nil {
		return Children{}, err
	}

	candidates := make(map[string]bool)
	addContaining := func(commit string) error {
		names, err := e.git.BranchesContaining(ctx, commit)
		if err != nil {
			return err
		}
		for _, name := range names {
			if name == branchName || name == e.trunk {
				continue
			}
			candidates[name] = true
		}
		return nil
	}

	if err := addContaining(tip); err != nil {
		return Children{}, err
	}

	// Historical tips: stale-parent markers for this branch, plus the
	// merge-base markers when the branch is the trunk itself.
	stale, err := e.store.List(ctx, marks.StaleGlob)
	if err != nil {
		return Children{}, err
	}
	for name, target := range stale {
		marker, ok := marks.ParseStaleParent(name)
		if !ok || marker.Branch != branchName {
			continue
		}
		if err := addContaining(target); err != nil {
			return Children{}, err
		}
	}
	if e.IsTrunk(branchName) {
		mergeBases, err := e.store.List(ctx, marks.MergeBaseGlob)
		if err != nil {
			return Children{}, err
		}
		for name, target := range mergeBases {
			if _, ok := marks.ParseMergeBase(name); !ok {
				continue
			}
			if err := addContaining(target); err != nil {
				return Children{}, err
			}
		}
	}

	if len(candidates) == 0 {
		return Children{}, nil
	}

	names := make([]string, 0, len(candidates))
	for name := range candidates {
		names = append(names, name)
	}
	sort.Strings(names)

	confirmed, err := e.confirmCandidates(ctx, branchName, names)
	if err != nil {
		return Children{}, err
	}

	sort.Strings(confirmed.Current)
	sort.Strings(confirmed.Orphaned)
	return confirmed, nil
}

// confirmCandidates resolves each candidate's parent and keeps those whose
// parent is the target branch. Candidates sharing an immediate ancestor
// commit are deduplicated through a per-call memo so the resolution runs
// once per distinct ancestor.
func (e *Engine) confirmCandidates(ctx context.Context, target string, names []string) (Children, error) {
	// Group candidates by their immediate ancestor commit first; these are
	// single cheap queries and give the memo its keys.
	type candidate struct {
		name     string
		ancestor string
	}
	cands := make([]candidate, 0, len(names))
	ancestors := make(map[string]bool)
	for _, name := range names {
		tip, err := e.git.ResolveCommit(ctx, name)
		if err != nil {
			return Children{}, err
		}
		ancestor, err := e.git.FirstParent(ctx, tip)
		if err != nil {
			return Children{}, err
		}
		if ancestor == "" {
			// A root commit has no parent branch; it cannot be a child.
			continue
		}
		cands = append(cands, candidate{name: name, ancestor: ancestor})
		ancestors[ancestor] = true
	}

	// Resolve each distinct ancestor concurrently, bounded by the worker
	// limit.
	type resolution struct {
		parent Branch
		err    error
	}
	memo := make(map[string]resolution, len(ancestors))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.concurrency)

	for ancestor := range ancestors {
		wg.Add(1)
		go func(commit string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			parent, err := e.resolveAncestor(ctx, commit)
			mu.Lock()
			memo[commit] = resolution{parent: parent, err: err}
			mu.Unlock()
		}(ancestor)
	}
	wg.Wait()

	var out Children
	for _, cand := range cands {
		res := memo[cand.ancestor]
		if res.err != nil {
			return Children{}, res.err
		}
		if res.parent.Name != target {
			continue
		}
		if res.parent.Stale {
			out.Orphaned = append(out.Orphaned, cand.name)
		} else {
			out.Current = append(out.Current, cand.name)
		}
	}
	return out, nil
}
