// Package engine implements baobranch's branch relationship tracking and
// reconciliation: parent resolution, children resolution, the staleness
// marker lifecycle, and the evolve orchestrator.
package engine

import (
	"github.com/e111077/baobranch/internal/cache"
	"github.com/e111077/baobranch/internal/marks"
)

// Default bounds for resolver behavior.
const (
	// DefaultMaxParentWalk caps the recursive parent walk so pathological
	// rewrite chains terminate.
	DefaultMaxParentWalk = 1000

	// DefaultConcurrency bounds parallel backend queries during children
	// resolution and tree building.
	DefaultConcurrency = 8
)

// Engine holds the collaborators every resolver needs. It is cheap to
// construct; all authoritative state lives in the repository and the marker
// store.
type Engine struct {
	git   Git
	store marks.Store
	trunk string

	maxParentWalk int
	concurrency   int
	hints         *cache.DB
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxParentWalk overrides the parent walk bound.
func WithMaxParentWalk(n int) Option {
	return func(e *Engine) { e.maxParentWalk = n }
}

// WithConcurrency overrides the bounded fan-out limit.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithHintCache attaches a best-effort parent hint cache. A nil cache is
// allowed and disables hinting.
func WithHintCache(db *cache.DB) Option {
	return func(e *Engine) { e.hints = db }
}

// New creates an Engine for the given trunk branch.
func New(g Git, store marks.Store, trunk string, opts ...Option) *Engine {
	e := &Engine{
		git:           g,
		store:         store,
		trunk:         trunk,
		maxParentWalk: DefaultMaxParentWalk,
		concurrency:   DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Trunk returns the configured trunk branch name.
func (e *Engine) Trunk() string {
	return e.trunk
}

// IsTrunk reports whether a branch is the trunk.
func (e *Engine) IsTrunk(branchName string) bool {
	return branchName == e.trunk
}

// Store exposes the marker store for commands that inspect markers directly.
func (e *Engine) Store() marks.Store {
	return e.store
}

// Git exposes the backend for actions that perform plain VCS operations.
func (e *Engine) Git() Git {
	return e.git
}
