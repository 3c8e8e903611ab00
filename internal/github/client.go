package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"

	"github.com/halyard-dev/halyard/internal/core"
	"github.com/halyard-dev/halyard/internal/domain/model"
)

// Deploy config document locations inside GitHub.
const (
	orgConfigRepo = ".github"
	configPath    = ".deploy.json"
)

// Client implements core.GitHubClient on top of an App.
type Client struct {
	app *App
}

// NewClient creates a Client.
func NewClient(app *App) *Client {
	return &Client{app: app}
}

// InstallationToken mints a short-lived token scoped to an installation.
func (c *Client) InstallationToken(ctx context.Context, installationID int64) (string, error) {
	return c.app.InstallationToken(ctx, installationID)
}

// FetchDeployConfig reads and merges the two deploy config documents:
// org defaults from {org}/.github/.deploy.json, then repo overrides from
// {org}/{repo}/.deploy.json at the pushed ref. A missing document at either
// level is not an error; both missing yields an empty config.
func (c *Client) FetchDeployConfig(ctx context.Context, p core.FetchConfigParams) (*model.DeployConfig, error) {
	client, err := c.app.installationClient(ctx, p.InstallationID)
	if err != nil {
		return nil, err
	}

	merged := &model.DeployConfig{}

	// Org defaults live on the default branch of the .github repo, not at
	// the pushed ref of the deploying repo.
	orgCfg, err := fetchConfigFile(ctx, client, p.Org, orgConfigRepo, "")
	if err != nil {
		return nil, fmt.Errorf("fetch org deploy config: %w", err)
	}
	merged.Merge(orgCfg)

	repoCfg, err := fetchConfigFile(ctx, client, p.Org, p.Repo, p.Ref)
	if err != nil {
		return nil, fmt.Errorf("fetch repo deploy config: %w", err)
	}
	merged.Merge(repoCfg)

	return merged, nil
}

func fetchConfigFile(ctx context.Context, client *gh.Client, org, repo, ref string) (*model.DeployConfig, error) {
	var opts *gh.RepositoryContentGetOptions
	if ref != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: ref}
	}

	file, _, resp, err := client.Repositories.GetContents(ctx, org, repo, configPath, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if file == nil {
		return nil, nil
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s/%s: %w", org, repo, configPath, err)
	}

	var cfg model.DeployConfig
	if err := json.Unmarshal([]byte(content), &cfg); err != nil {
		return nil, fmt.Errorf("parse %s/%s/%s: %w", org, repo, configPath, err)
	}
	return &cfg, nil
}

// CreateComment posts a new PR comment and returns its ID.
func (c *Client) CreateComment(ctx context.Context, p core.CommentParams, body string) (int64, error) {
	client, err := c.app.installationClient(ctx, p.InstallationID)
	if err != nil {
		return 0, err
	}

	comment, _, err := client.Issues.CreateComment(ctx, p.Org, p.Repo, p.PRNumber,
		&gh.IssueComment{Body: gh.Ptr(body)})
	if err != nil {
		return 0, fmt.Errorf("create pr comment on %s/%s#%d: %w", p.Org, p.Repo, p.PRNumber, err)
	}
	if comment.GetID() == 0 {
		return 0, errors.New("github returned a comment without an id")
	}
	return comment.GetID(), nil
}

// UpdateComment edits an existing PR comment in place.
func (c *Client) UpdateComment(ctx context.Context, p core.CommentParams, commentID int64, body string) error {
	client, err := c.app.installationClient(ctx, p.InstallationID)
	if err != nil {
		return err
	}

	_, _, err = client.Issues.EditComment(ctx, p.Org, p.Repo, commentID,
		&gh.IssueComment{Body: gh.Ptr(body)})
	if err != nil {
		return fmt.Errorf("update pr comment %d on %s/%s: %w", commentID, p.Org, p.Repo, err)
	}
	return nil
}
