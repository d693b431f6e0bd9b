// Package runtime provides the context type that carries the engine, output,
// and repository identity through every command.
package runtime

import (
	"context"
	"fmt"

	"github.com/e111077/baobranch/internal/cache"
	"github.com/e111077/baobranch/internal/config"
	"github.com/e111077/baobranch/internal/engine"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/tui"
)

// Context provides access to the engine and output for commands. The
// checked-out branch is captured once here and threaded explicitly instead
// of being re-queried ambiently mid-operation.
type Context struct {
	Context       context.Context
	Engine        *engine.Engine
	Splog         *tui.Splog
	RepoRoot      string
	CurrentBranch string // "" when HEAD is detached

	hintCache *cache.DB
}

// GetContext opens the repository, loads configuration, and wires up the
// engine for a command invocation.
func GetContext() (*Context, error) {
	if err := git.InitDefaultRepo(); err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}

	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to get repo root: %w", err)
	}

	if !config.IsInitialized(repoRoot) {
		return nil, fmt.Errorf("baobranch not initialized. Run 'bb init' first")
	}

	trunk, err := config.GetTrunk(repoRoot)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	current, err := git.GetCurrentBranchName(ctx)
	if err != nil {
		return nil, err
	}

	// The hint cache is best-effort; an open failure just runs uncached.
	hints, err := cache.Open(repoRoot + "/.git")
	if err != nil {
		hints = nil
	}

	eng := engine.New(
		git.NewBackend(),
		git.NewTagStore(),
		trunk,
		engine.WithHintCache(hints),
	)

	return &Context{
		Context:       ctx,
		Engine:        eng,
		Splog:         tui.NewSplogWithLogFile(tui.DefaultLogFilePath(repoRoot)),
		RepoRoot:      repoRoot,
		CurrentBranch: current,
		hintCache:     hints,
	}, nil
}

// Close releases per-invocation resources.
func (c *Context) Close() error {
	return c.hintCache.Close()
}
