package actions

import (
	"fmt"
	"strings"

	"github.com/e111077/baobranch/internal/config"
	"github.com/e111077/baobranch/internal/git"
	"github.com/e111077/baobranch/internal/github"
	"github.com/e111077/baobranch/internal/runtime"
	"github.com/e111077/baobranch/internal/tui"
)

// PRAction repoints each descendant pull request's base at its resolved
// parent and stamps a stack summary into the description. Purely cosmetic:
// the review service learns what the markers already know.
func PRAction(ctx *runtime.Context) error {
	remote, err := config.GetRemote(ctx.RepoRoot)
	if err != nil {
		return err
	}
	if remote == "" {
		return fmt.Errorf("no remote configured; re-run 'bb init' after adding one")
	}
	url, err := git.GetRemoteURL(ctx.Context, remote)
	if err != nil {
		return err
	}
	slug, ok := github.SlugFromRemoteURL(url)
	if !ok {
		return fmt.Errorf("remote %s does not look like a GitHub repository: %s", remote, url)
	}

	client, err := github.NewClient(ctx.Context, slug)
	if err != nil {
		return err
	}

	branches, err := descendantsOfTrunk(ctx)
	if err != nil {
		return err
	}
	if len(branches) == 0 {
		ctx.Splog.Info("No branches to update.")
		return nil
	}

	updated := 0
	for _, branch := range branches {
		// A branch already merged into the trunk has nothing left to
		// repoint.
		if merged, err := git.IsAncestor(branch, ctx.Engine.Trunk()); err == nil && merged {
			ctx.Splog.Debug("Skipping %s: already merged.", branch)
			continue
		}

		parent, err := ctx.Engine.ResolveParent(ctx.Context, branch)
		if err != nil {
			return err
		}
		if parent.Stale {
			ctx.Splog.Warn("Skipping %s: parent %s is stale; evolve first.", branch, parent.Name)
			continue
		}

		pr, err := client.FindPRForBranch(ctx.Context, branch)
		if err != nil {
			return err
		}
		if pr == nil {
			ctx.Splog.Debug("No open PR for %s.", branch)
			continue
		}

		if pr.GetBase().GetRef() != parent.Name {
			if err := client.UpdatePRBase(ctx.Context, pr.GetNumber(), parent.Name); err != nil {
				return err
			}
			ctx.Splog.Info("PR #%d (%s): base set to %s.",
				pr.GetNumber(), tui.ColorBranchName(branch, branch == ctx.CurrentBranch), parent.Name)
			updated++
		}

		body := stackFooter(branches, branch)
		if !strings.Contains(pr.GetBody(), body) {
			if err := client.UpdatePRBody(ctx.Context, pr.GetNumber(), appendFooter(pr.GetBody(), body)); err != nil {
				return err
			}
		}
	}

	ctx.Splog.Info("Updated %d pull request(s).", updated)
	return nil
}

// descendantsOfTrunk returns every branch in the tree below the trunk, in
// breadth-first order.
func descendantsOfTrunk(ctx *runtime.Context) ([]string, error) {
	tree, err := ctx.Engine.BuildTree(ctx.Context)
	if err != nil {
		return nil, err
	}

	var branches []string
	queue := tree.Children
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		branches = append(branches, node.Name)
		queue = append(queue, node.Children...)
	}
	return branches, nil
}

const footerMark = "<!-- bb-stack -->"

// stackFooter renders the stack position list embedded in each PR body.
func stackFooter(branches []string, current string) string {
	var sb strings.Builder
	sb.WriteString(footerMark)
	sb.WriteString("\n**Stack:**\n")
	for _, branch := range branches {
		if branch == current {
			sb.WriteString(fmt.Sprintf("- **%s** (this PR)\n", branch))
		} else {
			sb.WriteString(fmt.Sprintf("- %s\n", branch))
		}
	}
	return sb.String()
}

// appendFooter replaces an existing stack footer or appends a fresh one.
func appendFooter(body, footer string) string {
	if idx := strings.Index(body, footerMark); idx >= 0 {
		body = strings.TrimRight(body[:idx], "\n")
	}
	if body == "" {
		return footer
	}
	return body + "\n\n" + footer
}
