// Package github provisions repositories for projects. It is the external
// collaborator that owns a project's github_repo_url; the agent core only
// reads that field.
package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

type Client struct {
	api   *gh.Client
	owner string // organization or user owning new repositories; empty means the token's user
}

func NewClient(ctx context.Context, token, owner string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{api: gh.NewClient(tc), owner: owner}, nil
}

// CreateRepo creates a repository and returns its HTML URL.
func (c *Client) CreateRepo(ctx context.Context, name, description string, private bool) (string, error) {
	repo := &gh.Repository{
		Name:        gh.String(name),
		Description: gh.String(description),
		Private:     gh.Bool(private),
		AutoInit:    gh.Bool(true),
	}

	created, _, err := c.api.Repositories.Create(ctx, c.owner, repo)
	if err != nil {
		return "", fmt.Errorf("create github repo %q: %w", name, err)
	}
	if created.HTMLURL == nil {
		return "", fmt.Errorf("create github repo %q: response missing html url", name)
	}

	return created.GetHTMLURL(), nil
}
