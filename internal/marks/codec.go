// Package marks encodes baobranch's relationship markers and persists them
// through a small key-value store backed by git tags.
//
// Markers are the only durable state baobranch keeps: stale-parent markers
// record rewritten branch tips that still have live children, merge-base
// markers record abandoned trunk tips, split-root markers record the original
// tip of a split branch, and evolve markers persist an in-flight evolve
// queue so it survives process exit.
package marks

import (
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates fields inside a marker name. Branch names containing
// it cannot be encoded unambiguously and are rejected by ValidateBranchName.
const Delimiter = "--"

// Marker name prefixes, one per marker family.
const (
	stalePrefix      = "stale-parent" + Delimiter
	mergeBasePrefix  = "merge-base" + Delimiter
	splitRootPrefix  = "split-root" + Delimiter
	evolvePrefix     = "evolve" + Delimiter
	evolveHeadPrefix = "evolve-head" + Delimiter
)

// Glob patterns matching each marker family in a Store.List call.
const (
	StaleGlob      = "stale-parent" + Delimiter + "*"
	MergeBaseGlob  = "merge-base" + Delimiter + "*"
	SplitRootGlob  = "split-root" + Delimiter + "*"
	EvolveGlob     = "evolve" + Delimiter + "*"
	EvolveHeadGlob = "evolve-head" + Delimiter + "*"
)

// ValidateBranchName rejects branch names that would corrupt marker
// encoding. Every command validates its branch arguments through this before
// any marker is written.
func ValidateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("branch name is empty")
	}
	if strings.Contains(name, Delimiter) {
		return fmt.Errorf("branch name %q contains the marker delimiter %q", name, Delimiter)
	}
	return nil
}

// StaleParent identifies one historical tip of a rewritten branch.
type StaleParent struct {
	Branch string
	Seq    int
}

// Name returns the marker name for a stale-parent marker.
func (m StaleParent) Name() string {
	return stalePrefix + m.Branch + Delimiter + strconv.Itoa(m.Seq)
}

// ParseStaleParent decodes a stale-parent marker name. ok is false when the
// name does not match the family, including malformed sequence fields.
func ParseStaleParent(name string) (StaleParent, bool) {
	rest, found := strings.CutPrefix(name, stalePrefix)
	if !found {
		return StaleParent{}, false
	}
	// The branch field cannot contain the delimiter, so the last occurrence
	// splits branch from sequence.
	idx := strings.LastIndex(rest, Delimiter)
	if idx <= 0 {
		return StaleParent{}, false
	}
	branch := rest[:idx]
	seq, ok := parseSeq(rest[idx+len(Delimiter):])
	if !ok {
		return StaleParent{}, false
	}
	return StaleParent{Branch: branch, Seq: seq}, true
}

// MergeBase identifies one historical tip of the trunk branch.
type MergeBase struct {
	Seq int
}

// Name returns the marker name for a merge-base marker.
func (m MergeBase) Name() string {
	return mergeBasePrefix + strconv.Itoa(m.Seq)
}

// ParseMergeBase decodes a merge-base marker name.
func ParseMergeBase(name string) (MergeBase, bool) {
	rest, found := strings.CutPrefix(name, mergeBasePrefix)
	if !found {
		return MergeBase{}, false
	}
	seq, ok := parseSeq(rest)
	if !ok {
		return MergeBase{}, false
	}
	return MergeBase{Seq: seq}, true
}

// SplitRoot marks the original tip of a branch that was split.
type SplitRoot struct {
	Branch string
}

// Name returns the marker name for a split-root marker.
func (m SplitRoot) Name() string {
	return splitRootPrefix + m.Branch
}

// ParseSplitRoot decodes a split-root marker name.
func ParseSplitRoot(name string) (SplitRoot, bool) {
	rest, found := strings.CutPrefix(name, splitRootPrefix)
	if !found || rest == "" {
		return SplitRoot{}, false
	}
	if strings.Contains(rest, Delimiter) {
		return SplitRoot{}, false
	}
	return SplitRoot{Branch: rest}, true
}

// EvolveStep is one queued branch of an in-flight evolve operation.
type EvolveStep struct {
	Scope  string
	Index  int
	Branch string
}

// Name returns the marker name for an evolve-progress marker.
func (m EvolveStep) Name() string {
	return evolvePrefix + m.Scope + Delimiter + strconv.Itoa(m.Index) + Delimiter + m.Branch
}

// ParseEvolveStep decodes an evolve-progress marker name.
func ParseEvolveStep(name string) (EvolveStep, bool) {
	rest, found := strings.CutPrefix(name, evolvePrefix)
	if !found {
		return EvolveStep{}, false
	}
	parts := strings.SplitN(rest, Delimiter, 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return EvolveStep{}, false
	}
	if strings.Contains(parts[2], Delimiter) {
		return EvolveStep{}, false
	}
	index, ok := parseSeq(parts[1])
	if !ok {
		return EvolveStep{}, false
	}
	return EvolveStep{Scope: parts[0], Index: index, Branch: parts[2]}, true
}

// EvolveHead records the branch the user had checked out when an evolve
// started, so completion can restore it.
type EvolveHead struct {
	Branch string
}

// Name returns the marker name for an evolve-head marker.
func (m EvolveHead) Name() string {
	return evolveHeadPrefix + m.Branch
}

// ParseEvolveHead decodes an evolve-head marker name.
func ParseEvolveHead(name string) (EvolveHead, bool) {
	rest, found := strings.CutPrefix(name, evolveHeadPrefix)
	if !found || rest == "" || strings.Contains(rest, Delimiter) {
		return EvolveHead{}, false
	}
	return EvolveHead{Branch: rest}, true
}

// parseSeq parses a base-10 sequence field, rejecting empty strings, leading
// zeros, signs, and non-numeric characters.
func parseSeq(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
