package actions

import (
	"fmt"

	"github.com/e111077/baobranch/internal/marks"
	"github.com/e111077/baobranch/internal/runtime"
)

// SweepAction deletes stale markers whose commits no longer anchor any
// branch. Normally this runs automatically after every tip move; the command
// exists for repositories that accumulated markers through interrupted runs.
func SweepAction(ctx *runtime.Context) error {
	before, err := countMarkers(ctx)
	if err != nil {
		return err
	}

	if err := ctx.Engine.SweepStaleMarkers(ctx.Context); err != nil {
		return fmt.Errorf("failed to sweep: %w", err)
	}

	after, err := countMarkers(ctx)
	if err != nil {
		return err
	}
	ctx.Splog.Info("Swept %d marker(s); %d remain.", before-after, after)
	return nil
}

func countMarkers(ctx *runtime.Context) (int, error) {
	markers, err := ctx.Engine.Store().List(ctx.Context, marks.StaleGlob)
	if err != nil {
		return 0, err
	}
	return len(markers), nil
}
