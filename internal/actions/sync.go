package actions

import (
	"fmt"

	"github.com/e111077/baobranch/internal/config"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/runtime"
	"github.com/e111077/baobranch/internal/tui"
)

// SyncOptions contains options for the sync command.
type SyncOptions struct {
	NoPull bool
}

// SyncAction fast-forwards the trunk from its remote, then re-derives the
// merge-base markers that let branches cut from superseded trunk commits
// keep resolving their parent. The original checkout is restored at the end.
func SyncAction(ctx *runtime.Context, opts SyncOptions) error {
	trunk := ctx.Engine.Trunk()

	if !opts.NoPull {
		remote, err := config.GetRemote(ctx.RepoRoot)
		if err != nil {
			return err
		}
		if remote == "" {
			ctx.Splog.Warn("No remote configured; skipping pull.")
		} else {
			if err := pullTrunk(ctx, remote, trunk); err != nil {
				return err
			}
		}
	}

	if err := ctx.Engine.RefreshTrunkMarkers(ctx.Context); err != nil {
		return fmt.Errorf("failed to refresh trunk markers: %w", err)
	}
	if err := ctx.Engine.SweepStaleMarkers(ctx.Context); err != nil {
		return fmt.Errorf("failed to sweep stale markers: %w", err)
	}

	ctx.Splog.Info("Synced %s.", tui.ColorTrunk(trunk))
	return nil
}

// pullTrunk checks the trunk out just long enough for a fast-forward pull.
func pullTrunk(ctx *runtime.Context, remote, trunk string) error {
	restore := ctx.CurrentBranch
	if restore != trunk {
		if err := git.CheckoutBranch(ctx.Context, trunk); err != nil {
			return fmt.Errorf("failed to check out %s: %w", trunk, err)
		}
		defer func() {
			if restore == "" {
				return
			}
			if err := git.CheckoutBranch(ctx.Context, restore); err != nil {
				ctx.Splog.Warn("Failed to restore %s: %v", restore, err)
			}
		}()
	}

	result, err := git.PullTrunk(ctx.Context, remote, trunk)
	if err != nil {
		return fmt.Errorf("failed to pull %s (fast-forward only): %w", trunk, err)
	}
	if result == git.PullUnneeded {
		ctx.Splog.Info("%s is already up to date.", tui.ColorTrunk(trunk))
	} else {
		ctx.Splog.Info("Pulled %s from %s.", tui.ColorTrunk(trunk), remote)
	}
	return nil
}
