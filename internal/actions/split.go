package actions

import (
	"errors"
	"fmt"

	bberrors "github.com/e111077/baobranch/internal/errors"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/marks"
	"github.com/e111077/baobranch/internal/runtime"
	"github.com/e111077/baobranch/internal/tui"
)

// SplitAction explodes the current branch's commit into a stack of branches,
// one per changed file. The original branch keeps its tip and gains a
// split-root marker so the relationship to the new stack stays derivable.
func SplitAction(ctx *runtime.Context) error {
	branch := ctx.CurrentBranch
	if branch == "" {
		return bberrors.ErrNotOnBranch
	}
	if ctx.Engine.IsTrunk(branch) {
		return fmt.Errorf("%w: cannot split the trunk", bberrors.ErrTrunkOperation)
	}

	if dirty, err := hasPendingChanges(ctx); err != nil {
		return err
	} else if dirty {
		return fmt.Errorf("working tree has pending changes; commit or stash them first")
	}

	tip, err := git.GetRevision(ctx.Context, branch)
	if err != nil {
		return err
	}
	files, err := git.ChangedFiles(ctx.Context, tip)
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}
	if len(files) < 2 {
		return fmt.Errorf("commit touches %d file(s); nothing to split", len(files))
	}

	subject, err := git.GetCommitSubject(ctx.Context, tip)
	if err != nil {
		return err
	}
	base, err := git.GetFirstParent(ctx.Context, tip)
	if err != nil {
		return err
	}
	if base == "" {
		return fmt.Errorf("cannot split a root commit")
	}

	names, err := chooseSplitNames(ctx, branch, files)
	if err != nil {
		return err
	}

	// The marker goes down before any branch is cut so an interruption
	// mid-split still leaves the original tip findable.
	root := marks.SplitRoot{Branch: branch}
	if err := ctx.Engine.Store().Create(ctx.Context, root.Name(), tip); err != nil {
		return fmt.Errorf("failed to mark split root: %w", err)
	}

	if err := git.CheckoutDetached(ctx.Context, base); err != nil {
		return err
	}
	for i, file := range files {
		if err := git.CreateAndCheckoutBranch(ctx.Context, names[i]); err != nil {
			return fmt.Errorf("failed to create %s: %w", names[i], err)
		}
		message := fmt.Sprintf("%s (%s)", subject, file)
		if err := git.CommitPaths(ctx.Context, tip, message, []string{file}); err != nil {
			return fmt.Errorf("failed to commit %s on %s: %w", file, names[i], err)
		}
		ctx.Splog.Info("Created %s with %s.", tui.ColorBranchName(names[i], false), file)
	}

	if err := git.CheckoutBranch(ctx.Context, branch); err != nil {
		return fmt.Errorf("split finished but failed to restore %s: %w", branch, err)
	}

	ctx.Splog.Info("Split %s into %d stacked branch(es); the original tip is unchanged.",
		tui.ColorBranchName(branch, true), len(files))
	return nil
}

// chooseSplitNames collects one branch name per file, prompting when
// attended and falling back to numbered defaults otherwise.
func chooseSplitNames(ctx *runtime.Context, branch string, files []string) ([]string, error) {
	existing, err := ctx.Engine.Git().AllBranches(ctx.Context)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, name := range existing {
		taken[name] = true
	}

	names := make([]string, 0, len(files))
	for i, file := range files {
		defaultName := fmt.Sprintf("%s_split_%d", branch, i+1)
		name := defaultName
		if tui.IsAttended() {
			name, err = tui.PromptInput(fmt.Sprintf("Branch name for %s", file), defaultName)
			if errors.Is(err, tui.ErrInteractiveDisabled) {
				name = defaultName
			} else if err != nil {
				return nil, err
			}
		}
		if err := marks.ValidateBranchName(name); err != nil {
			return nil, err
		}
		if taken[name] {
			return nil, fmt.Errorf("branch name %s is already in use", name)
		}
		taken[name] = true
		names = append(names, name)
	}
	return names, nil
}

func hasPendingChanges(ctx *runtime.Context) (bool, error) {
	staged, err := git.HasStagedChanges(ctx.Context)
	if err != nil {
		return false, err
	}
	unstaged, err := git.HasUnstagedChanges(ctx.Context)
	if err != nil {
		return false, err
	}
	return staged || unstaged, nil
}
