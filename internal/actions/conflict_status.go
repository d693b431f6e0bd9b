package actions

import (
	"context"

	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/tui"
)

// PrintConflictStatus displays conflict information and instructions to the user.
func PrintConflictStatus(ctx context.Context, branchName string, splog *tui.Splog) {
	splog.Info("%s", tui.ColorWarn("Hit conflict evolving "+branchName))
	splog.Newline()

	unmergedFiles, err := git.GetUnmergedFiles(ctx)
	if err == nil && len(unmergedFiles) > 0 {
		splog.Info("Unmerged files:")
		for _, file := range unmergedFiles {
			splog.Info("  %s", tui.ColorWarn(file))
		}
		splog.Newline()
	}

	splog.Info("To fix and continue:")
	splog.Info("(1) resolve the listed merge conflicts")
	splog.Info("(2) mark them as resolved with %s", tui.ColorCommand("git add ."))
	splog.Info("(3) run %s to keep evolving", tui.ColorCommand("bb continue"))
	splog.Info("Or run %s to stop; branches already evolved stay evolved.", tui.ColorCommand("bb abort"))
}
