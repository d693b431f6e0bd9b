package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/e111077/baobranch/internal/cache"
	"github.com/e111077/baobranch/internal/marks"
)

// ResolveParent determines the logical parent of a branch: the live branch
// whose tip is the immediate ancestor commit, or a marker-derived stale
// reference when no live branch occupies that commit, walking further back
// through consecutive rewrites until something matches.
//
// Absence at any step is a value, not an error; only backend failures and a
// nonexistent input branch return errors.
func (e *Engine) ResolveParent(ctx context.Context, branchName string) (Branch, error) {
	tip, err := e.git.ResolveCommit(ctx, branchName)
	if err != nil {
		return Branch{}, err
	}

	ancestor, err := e.git.FirstParent(ctx, tip)
	if err != nil {
		return Branch{}, err
	}
	if ancestor == "" {
		// Root commit: the trunk is the only thing it can descend from.
		return Branch{Name: e.trunk}, nil
	}

	return e.resolveAncestor(ctx, ancestor)
}

// resolveAncestor determines which branch "owns" a commit that some child
// sits directly on top of. The walk moves to the commit's own first parent
// whenever no live branch and no marker matches, bounded by maxParentWalk
// and a visited set so test-constructed pathological histories terminate.
func (e *Engine) resolveAncestor(ctx context.Context, commit string) (Branch, error) {
	visited := make(map[string]bool)

	for depth := 0; depth < e.maxParentWalk; depth++ {
		if visited[commit] {
			return Branch{}, fmt.Errorf("parent walk cycled at commit %s", commit)
		}
		visited[commit] = true

		if parent, ok, err := e.resolveAtCommit(ctx, commit); err != nil {
			return Branch{}, err
		} else if ok {
			return parent, nil
		}

		next, err := e.git.FirstParent(ctx, commit)
		if err != nil {
			return Branch{}, err
		}
		if next == "" {
			// Walked back to the root without matching anything; the chain
			// bottoms out at the trunk.
			return Branch{Name: e.trunk}, nil
		}
		commit = next
	}

	return Branch{}, fmt.Errorf("parent walk exceeded %d steps", e.maxParentWalk)
}

// resolveAtCommit checks a single commit against live branches, stale-parent
// markers, and merge-base markers, in that order. ok is false when nothing
// matches and the walk should move one commit further back.
func (e *Engine) resolveAtCommit(ctx context.Context, commit string) (Branch, bool, error) {
	// A verified hint short-circuits the marker listing. Hints are never
	// trusted without confirming against the live repository.
	if hinted, ok := e.verifyHint(ctx, commit); ok {
		return hinted, true, nil
	}

	live, err := e.git.BranchesPointingAt(ctx, commit)
	if err != nil {
		return Branch{}, false, err
	}
	if len(live) > 0 {
		name := pickBranch(live, e.trunk)
		e.putHint(commit, cache.Hint{Name: name})
		return Branch{Name: name}, true, nil
	}

	stale, err := e.store.List(ctx, marks.StaleGlob)
	if err != nil {
		return Branch{}, false, err
	}
	var staleMatches []marks.StaleParent
	for name, target := range stale {
		marker, ok := marks.ParseStaleParent(name)
		if !ok || target != commit {
			continue
		}
		staleMatches = append(staleMatches, marker)
	}
	if len(staleMatches) > 0 {
		// Multiple markers at one commit means the same tip was recorded
		// for several branches; take the highest sequence of the first
		// name alphabetically for determinism.
		sort.Slice(staleMatches, func(i, j int) bool {
			if staleMatches[i].Branch != staleMatches[j].Branch {
				return staleMatches[i].Branch < staleMatches[j].Branch
			}
			return staleMatches[i].Seq > staleMatches[j].Seq
		})
		match := staleMatches[0]
		e.putHint(commit, cache.Hint{Name: match.Branch, Stale: true, Marker: match.Name()})
		return Branch{Name: match.Branch, Stale: true}, true, nil
	}

	mergeBases, err := e.store.List(ctx, marks.MergeBaseGlob)
	if err != nil {
		return Branch{}, false, err
	}
	for name, target := range mergeBases {
		marker, ok := marks.ParseMergeBase(name)
		if !ok || target != commit {
			continue
		}
		e.putHint(commit, cache.Hint{Name: e.trunk, Stale: true, Marker: marker.Name()})
		return Branch{Name: e.trunk, Stale: true}, true, nil
	}

	return Branch{}, false, nil
}

// verifyHint checks a cached resolution against the live repository. A live
// hint requires some branch to still point at the commit, with the owner
// re-picked from the listing; a stale hint must still have its marker
// pointing at the commit.
func (e *Engine) verifyHint(ctx context.Context, commit string) (Branch, bool) {
	hint, ok := e.hints.GetParentHint(commit)
	if !ok {
		return Branch{}, false
	}

	if !hint.Stale {
		live, err := e.git.BranchesPointingAt(ctx, commit)
		if err != nil || len(live) == 0 {
			return Branch{}, false
		}
		// The hint only proves the commit is worth checking. Which branch
		// wins is re-derived from the live listing so a branch that arrived
		// at the commit after the hint was written keeps its precedence.
		name := pickBranch(live, e.trunk)
		if name != hint.Name {
			e.putHint(commit, cache.Hint{Name: name})
		}
		return Branch{Name: name}, true
	}

	if hint.Marker == "" {
		return Branch{}, false
	}
	target, err := e.store.Resolve(ctx, hint.Marker)
	if err != nil || target != commit {
		return Branch{}, false
	}
	return Branch{Name: hint.Name, Stale: true}, true
}

func (e *Engine) putHint(commit string, hint cache.Hint) {
	e.hints.PutParentHint(commit, hint)
}

// pickBranch chooses deterministically among several branches pointing at
// the same commit, preferring the trunk when present.
func pickBranch(names []string, trunk string) string {
	for _, name := range names {
		if name == trunk {
			return trunk
		}
	}
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)
	return sorted[0]
}
