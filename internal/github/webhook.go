package github

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Webhook event type names from the X-GitHub-Event header.
const (
	EventTypePullRequest = "pull_request"
	EventTypePush        = "push"
	EventTypePing        = "ping"
)

// PR actions that matter to the deployment lifecycle.
const (
	ActionOpened      = "opened"
	ActionSynchronize = "synchronize"
	ActionReopened    = "reopened"
	ActionClosed      = "closed"
)

// Repository carries the repo fields the orchestrator consumes.
type Repository struct {
	Name     string          `json:"name"`
	FullName string          `json:"full_name"`
	CloneURL string          `json:"clone_url"`
	Owner    RepositoryOwner `json:"owner"`
}

// RepositoryOwner is the org or user owning the repository.
type RepositoryOwner struct {
	Login string `json:"login"`
}

// OrgName returns the organization/user name.
func (r *Repository) OrgName() string {
	return r.Owner.Login
}

// Installation identifies the GitHub App installation a webhook belongs to.
type Installation struct {
	ID int64 `json:"id"`
}

// PullRequestEvent is the payload of a pull_request webhook.
type PullRequestEvent struct {
	Action       string          `json:"action"`
	Number       int             `json:"number"`
	PullRequest  PullRequestInfo `json:"pull_request"`
	Repository   Repository      `json:"repository"`
	Installation *Installation   `json:"installation"`
}

// PullRequestInfo carries the PR head details.
type PullRequestInfo struct {
	Head   PullRequestHead `json:"head"`
	Merged *bool           `json:"merged"`
}

// PullRequestHead is the PR source branch.
type PullRequestHead struct {
	Branch string `json:"ref"`
	SHA    string `json:"sha"`
}

// IsDeployAction reports whether the action should trigger a build.
func (e *PullRequestEvent) IsDeployAction() bool {
	switch e.Action {
	case ActionOpened, ActionSynchronize, ActionReopened:
		return true
	default:
		return false
	}
}

// PushEvent is the payload of a push webhook.
type PushEvent struct {
	Ref          string        `json:"ref"`
	After        string        `json:"after"`
	Repository   Repository    `json:"repository"`
	Installation *Installation `json:"installation"`
}

// IsMainBranch reports whether this push targets the production branch.
func (e *PushEvent) IsMainBranch() bool {
	return e.Ref == "refs/heads/main" || e.Ref == "refs/heads/master"
}

// BranchName extracts the branch from the ref, or "" for tag pushes.
func (e *PushEvent) BranchName() string {
	branch, ok := strings.CutPrefix(e.Ref, "refs/heads/")
	if !ok {
		return ""
	}
	return branch
}

// IsBranchDeleted reports a branch deletion push (after is the zero SHA).
func (e *PushEvent) IsBranchDeleted() bool {
	return e.After == strings.Repeat("0", 40)
}

// WebhookEvent is the parsed union of webhook payloads.
type WebhookEvent struct {
	// Exactly one of these is set for recognized events.
	PullRequest *PullRequestEvent
	Push        *PushEvent
	Ping        bool
	// Unknown holds the event type name when not recognized.
	Unknown string
}

// ParseWebhookEvent parses a webhook payload by its X-GitHub-Event type.
// Unknown event types are not an error; they are acknowledged and dropped.
func ParseWebhookEvent(eventType string, payload []byte) (*WebhookEvent, error) {
	switch eventType {
	case EventTypePullRequest:
		var e PullRequestEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse pull_request event: %w", err)
		}
		return &WebhookEvent{PullRequest: &e}, nil
	case EventTypePush:
		var e PushEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, fmt.Errorf("parse push event: %w", err)
		}
		return &WebhookEvent{Push: &e}, nil
	case EventTypePing:
		return &WebhookEvent{Ping: true}, nil
	default:
		return &WebhookEvent{Unknown: eventType}, nil
	}
}
