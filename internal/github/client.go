// Package github provides the thin code-review client used for cosmetic
// updates after an evolve: repointing a pull request's base branch and
// refreshing its stack description. Everything else about the review
// service is out of baobranch's hands.
package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	gh "github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API for one repository.
type Client struct {
	api   *gh.Client
	owner string
	repo  string
}

// NewClient creates a Client from the GITHUB_TOKEN environment variable and
// an "owner/repo" slug.
func NewClient(ctx context.Context, slug string) (*Client, error) {
	owner, repo, found := strings.Cut(slug, "/")
	if !found || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository slug %q", slug)
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is not set")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)

	return &Client{
		api:   gh.NewClient(httpClient),
		owner: owner,
		repo:  repo,
	}, nil
}

// FindPRForBranch returns the open pull request whose head is the branch, or
// nil when none exists.
func (c *Client) FindPRForBranch(ctx context.Context, branch string) (*gh.PullRequest, error) {
	prs, _, err := c.api.PullRequests.List(ctx, c.owner, c.repo, &gh.PullRequestListOptions{
		Head:  c.owner + ":" + branch,
		State: "open",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests for %s: %w", branch, err)
	}
	if len(prs) == 0 {
		return nil, nil
	}
	return prs[0], nil
}

// UpdatePRBase repoints a pull request's base branch.
func (c *Client) UpdatePRBase(ctx context.Context, number int, base string) error {
	_, _, err := c.api.PullRequests.Edit(ctx, c.owner, c.repo, number, &gh.PullRequest{
		Base: &gh.PullRequestBranch{Ref: gh.String(base)},
	})
	if err != nil {
		return fmt.Errorf("failed to update base of PR %d: %w", number, err)
	}
	return nil
}

// UpdatePRBody replaces a pull request's description.
func (c *Client) UpdatePRBody(ctx context.Context, number int, body string) error {
	_, _, err := c.api.PullRequests.Edit(ctx, c.owner, c.repo, number, &gh.PullRequest{
		Body: gh.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to update body of PR %d: %w", number, err)
	}
	return nil
}

// SlugFromRemoteURL extracts "owner/repo" from a git remote URL.
func SlugFromRemoteURL(url string) (string, bool) {
	trimmed := strings.TrimSuffix(strings.TrimSpace(url), ".git")
	if rest, ok := strings.CutPrefix(trimmed, "git@github.com:"); ok {
		return rest, strings.Count(rest, "/") == 1
	}
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "ssh://git@github.com/"} {
		if rest, ok := strings.CutPrefix(trimmed, prefix); ok {
			return rest, strings.Count(rest, "/") == 1
		}
	}
	return "", false
}
