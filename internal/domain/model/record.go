package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeploymentType distinguishes ephemeral PR previews from durable main deployments.
type DeploymentType string

const (
	DeploymentTypePR   DeploymentType = "pr"
	DeploymentTypeMain DeploymentType = "main"
)

// DeploymentConfig is the persisted org/repo → deployment target mapping.
// Rows are upserted from resolved `.deploy.json` documents on each webhook
// and are read-only to the dispatch path itself.
type DeploymentConfig struct {
	ID             string    `json:"id"                       db:"id"`
	GitHubOrg      string    `json:"github_org"               db:"github_org"`
	GitHubRepo     string    `json:"github_repo"              db:"github_repo"`
	InstallationID int64     `json:"installation_id"          db:"installation_id"`
	Zone           string    `json:"zone"                     db:"zone"`
	Domain         *string   `json:"domain,omitempty"         db:"domain"`
	Subdomain      *string   `json:"subdomain,omitempty"      db:"subdomain"`
	SiteType       SiteType  `json:"site_type"                db:"site_type"`
	Enabled        bool      `json:"enabled"                  db:"enabled"`
	CreatedAt      time.Time `json:"created_at"               db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"               db:"updated_at"`
}

// DeploymentRecord tracks one attempt of one config. The job_id is the unique
// correlation key for worker callbacks; everything needed to update GitHub
// later (installation, comment) is denormalized here so the reconciler does
// not depend on webhook-time state.
type DeploymentRecord struct {
	ID              string         `json:"id"                          db:"id"`
	ConfigID        string         `json:"config_id"                   db:"config_id"`
	JobID           uuid.UUID      `json:"job_id"                      db:"job_id"`
	DeploymentType  DeploymentType `json:"deployment_type"             db:"deployment_type"`
	PRNumber        *int           `json:"pr_number,omitempty"         db:"pr_number"`
	Branch          string         `json:"branch"                      db:"branch"`
	CommitSHA       string         `json:"commit_sha"                  db:"commit_sha"`
	Status          JobStatus      `json:"status"                      db:"status"`
	InstallationID  int64          `json:"installation_id"             db:"installation_id"`
	GitHubCommentID *int64         `json:"github_comment_id,omitempty" db:"github_comment_id"`
	DeployedURL     *string        `json:"deployed_url,omitempty"      db:"deployed_url"`
	ErrorMessage    *string        `json:"error_message,omitempty"     db:"error_message"`
	StartedAt       time.Time      `json:"started_at"                  db:"started_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty"      db:"completed_at"`
}

// CanTransitionTo reports whether moving to next is a legal status change.
// Terminal statuses accept an idempotent re-write of the same status (retried
// callbacks are expected) but nothing else. Main deployments never reach
// cleaned.
func (r *DeploymentRecord) CanTransitionTo(next JobStatus) bool {
	if r.Status == next {
		return true
	}
	switch r.Status {
	case JobStatusPending:
		return next == JobStatusBuilding || next == JobStatusSuccess || next == JobStatusFailed
	case JobStatusBuilding:
		return next == JobStatusSuccess || next == JobStatusFailed
	case JobStatusSuccess:
		return next == JobStatusCleaned && r.DeploymentType == DeploymentTypePR
	default:
		return false
	}
}

// PRComment maps (org, repo, pr) to the GitHub comment that carries deployment
// status. One comment per PR, updated in place on every push.
type PRComment struct {
	ID         string    `json:"id"          db:"id"`
	GitHubOrg  string    `json:"github_org"  db:"github_org"`
	GitHubRepo string    `json:"github_repo" db:"github_repo"`
	PRNumber   int       `json:"pr_number"   db:"pr_number"`
	CommentID  int64     `json:"comment_id"  db:"comment_id"`
	CreatedAt  time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"  db:"updated_at"`
}

// WorkerEndpoint is a zone's registered worker. Source of truth is the
// operator's static zone→endpoint mapping; rows absent from that mapping are
// disabled, never deleted.
type WorkerEndpoint struct {
	ID        string     `json:"id"                  db:"id"`
	Zone      string     `json:"zone"                db:"zone"`
	Endpoint  string     `json:"endpoint"            db:"endpoint"`
	Enabled   bool       `json:"enabled"             db:"enabled"`
	LastSeen  *time.Time `json:"last_seen,omitempty" db:"last_seen"`
	CreatedAt time.Time  `json:"created_at"          db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"          db:"updated_at"`
}

// AuthorizedOrg is the allow-list entry gating which zones and domains a
// GitHub org may deploy to.
type AuthorizedOrg struct {
	ID             string    `json:"id"              db:"id"`
	GitHubOrg      string    `json:"github_org"      db:"github_org"`
	Zones          []string  `json:"zones"           db:"zones"`
	DomainPatterns []string  `json:"domain_patterns" db:"domain_patterns"`
	Enabled        bool      `json:"enabled"         db:"enabled"`
	CreatedAt      time.Time `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"      db:"updated_at"`
}

// CanUseZone reports whether the org may deploy to the zone.
func (a *AuthorizedOrg) CanUseZone(zone string) bool {
	for _, z := range a.Zones {
		if strings.EqualFold(z, zone) {
			return true
		}
	}
	return false
}

// CanUseDomain reports whether the org may claim the domain. Patterns are
// exact hostnames or `*.` wildcards; a wildcard also matches the apex.
func (a *AuthorizedOrg) CanUseDomain(domain string) bool {
	d := strings.ToLower(domain)
	for _, pattern := range a.DomainPatterns {
		p := strings.ToLower(pattern)
		if rest, ok := strings.CutPrefix(p, "*."); ok {
			if d == rest || (strings.HasSuffix(d, "."+rest) && len(d) > len(rest)+1) {
				return true
			}
			continue
		}
		if d == p {
			return true
		}
	}
	return false
}
