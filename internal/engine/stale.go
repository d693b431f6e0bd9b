package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/e111077/baobranch/internal/marks"
)

// MarkStale records a rewritten branch tip. The marker is only created when
// the old tip still has live children to anchor; either way the stale
// namespace is swept afterwards so no marker outlives its last descendant.
//
// Callers must capture hasLiveChildren before moving the tip; it is not
// recoverable afterwards.
func (e *Engine) MarkStale(ctx context.Context, commit, branchName string, hasLiveChildren bool) error {
	if err := marks.ValidateBranchName(branchName); err != nil {
		return err
	}

	if hasLiveChildren {
		seq, err := e.nextStaleSeq(ctx, branchName)
		if err != nil {
			return err
		}
		marker := marks.StaleParent{Branch: branchName, Seq: seq}
		if err := e.store.Create(ctx, marker.Name(), commit); err != nil {
			return fmt.Errorf("failed to create stale marker for %s: %w", branchName, err)
		}
	}

	return e.SweepStaleMarkers(ctx)
}

// nextStaleSeq returns max existing sequence + 1, or 0 when no markers
// exist for the branch.
func (e *Engine) nextStaleSeq(ctx context.Context, branchName string) (int, error) {
	existing, err := e.store.List(ctx, marks.StaleGlob)
	if err != nil {
		return 0, err
	}

	next := 0
	for name := range existing {
		marker, ok := marks.ParseStaleParent(name)
		if !ok || marker.Branch != branchName {
			continue
		}
		if marker.Seq >= next {
			next = marker.Seq + 1
		}
	}
	return next, nil
}

// SweepStaleMarkers deletes every stale-parent marker whose commit no live
// branch reaches anymore. Idempotent; only markers proven dead by the
// current query are deleted, so a concurrent mutation can at worst leave a
// marker for the next sweep.
func (e *Engine) SweepStaleMarkers(ctx context.Context) error {
	markers, err := e.store.List(ctx, marks.StaleGlob)
	if err != nil {
		return err
	}

	for name, commit := range markers {
		if _, ok := marks.ParseStaleParent(name); !ok {
			continue
		}
		alive, err := e.git.BranchesContaining(ctx, commit)
		if err != nil {
			return err
		}
		if len(alive) == 0 {
			if err := e.store.Delete(ctx, name); err != nil {
				return fmt.Errorf("failed to delete dead marker %s: %w", name, err)
			}
		}
	}
	return nil
}

// RefreshTrunkMarkers recomputes the merge-base markers recording historical
// trunk positions abandoned by a rewrite. All numbered markers are replaced:
// for every live branch the merge base with the trunk is computed, and the
// bases behind the current tip are renumbered contiguously from 1 in
// sorted-branch discovery order. A branch whose recorded base carries such a
// marker resolves its parent to the trunk as stale, which is what queues it
// for a catch-up rebase on the next evolve.
func (e *Engine) RefreshTrunkMarkers(ctx context.Context) error {
	existing, err := e.store.List(ctx, marks.MergeBaseGlob)
	if err != nil {
		return err
	}
	for name := range existing {
		if _, ok := marks.ParseMergeBase(name); !ok {
			continue
		}
		if err := e.store.Delete(ctx, name); err != nil {
			return err
		}
	}

	trunkTip, err := e.git.ResolveCommit(ctx, e.trunk)
	if err != nil {
		return err
	}

	branches, err := e.git.AllBranches(ctx)
	if err != nil {
		return err
	}
	sort.Strings(branches)

	var kept []string
	seen := make(map[string]bool)
	for _, branch := range branches {
		if branch == e.trunk {
			continue
		}
		base, err := e.git.MergeBase(ctx, branch, e.trunk)
		if err != nil {
			// A branch with no common history has no trunk position to
			// record.
			continue
		}
		if base == trunkTip || seen[base] {
			continue
		}
		seen[base] = true
		kept = append(kept, base)
	}

	for i, base := range kept {
		marker := marks.MergeBase{Seq: i + 1}
		if err := e.store.Create(ctx, marker.Name(), base); err != nil {
			return fmt.Errorf("failed to create merge-base marker: %w", err)
		}
	}
	return nil
}
