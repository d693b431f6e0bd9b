package actions

import (
	"context"
	"errors"
	"fmt"

	"github.com/e111077/baobranch/internal/config"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/marks"
	"github.com/e111077/baobranch/internal/tui"
)

// InitOptions contains options for the init command.
type InitOptions struct {
	Trunk string
	Reset bool
}

// InitAction records the trunk branch for this repository. The trunk is an
// explicit configuration choice; main/master only seed the prompt default.
func InitAction(ctx context.Context, opts InitOptions, splog *tui.Splog) error {
	if err := git.InitDefaultRepo(); err != nil {
		return fmt.Errorf("not a git repository: %w", err)
	}
	repoRoot, err := git.GetRepoRoot()
	if err != nil {
		return fmt.Errorf("failed to get repo root: %w", err)
	}

	if config.IsInitialized(repoRoot) && !opts.Reset {
		trunk, err := config.GetTrunk(repoRoot)
		if err != nil {
			return err
		}
		splog.Info("Already initialized with trunk %s. Use --reset to change it.", tui.ColorTrunk(trunk))
		return nil
	}

	repo, err := git.GetDefaultRepo()
	if err != nil {
		return err
	}
	branches, err := repo.GetBranchNames()
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}
	if len(branches) == 0 {
		return fmt.Errorf("repository has no branches; create an initial commit first")
	}

	trunk := opts.Trunk
	if trunk == "" {
		trunk, err = chooseTrunk(branches)
		if err != nil {
			return err
		}
	}

	exists, err := repo.BranchExists(trunk)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("branch %s does not exist", trunk)
	}
	if err := marks.ValidateBranchName(trunk); err != nil {
		return err
	}

	if err := config.SetTrunk(repoRoot, trunk); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if remote := git.GetRemote(); remote != "" {
		if err := config.SetRemote(repoRoot, remote); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	splog.Info("Initialized with trunk %s.", tui.ColorTrunk(trunk))
	splog.Tip("Branches are expected to carry exactly one commit; use 'bb amend' to revise.")
	return nil
}

// chooseTrunk prompts for the trunk branch, defaulting to main or master
// when present.
func chooseTrunk(branches []string) (string, error) {
	defaultTrunk := branches[0]
	for _, candidate := range []string{"main", "master"} {
		for _, branch := range branches {
			if branch == candidate {
				defaultTrunk = candidate
				break
			}
		}
		if defaultTrunk == candidate {
			break
		}
	}

	if !tui.IsAttended() {
		return defaultTrunk, nil
	}

	trunk, err := tui.PromptSelect("Which branch is your trunk?", branches, defaultTrunk)
	if errors.Is(err, tui.ErrInteractiveDisabled) {
		return defaultTrunk, nil
	}
	if err != nil {
		return "", err
	}
	return trunk, nil
}
