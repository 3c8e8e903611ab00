//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// JobStatus tracks a deployment job through its lifecycle.
type JobStatus string

const (
	// JobStatusPending means the job has been created but not yet picked up.
	JobStatusPending JobStatus = "pending"
	// JobStatusBuilding means the worker is actively building.
	JobStatusBuilding JobStatus = "building"
	// JobStatusSuccess means the build was deployed and routed.
	JobStatusSuccess JobStatus = "success"
	// JobStatusFailed means the build or deployment failed. Terminal.
	JobStatusFailed JobStatus = "failed"
	// JobStatusCleaned means a PR deployment was removed after close. Terminal.
	JobStatusCleaned JobStatus = "cleaned"
)

// Valid reports whether the status is a known lifecycle state.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusBuilding, JobStatusSuccess, JobStatusFailed, JobStatusCleaned:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transitions are allowed from this status.
// A success for a PR deployment may still transition to cleaned, so success is
// not terminal here; the repository enforces that main deployments never reach
// cleaned.
func (s JobStatus) Terminal() bool {
	return s == JobStatusFailed || s == JobStatusCleaned
}

// ParseJobStatus normalizes a status string and reports whether it is supported.
func ParseJobStatus(value string) (JobStatus, bool) {
	s := JobStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// BuildJob is the unit of build work dispatched from Central to a Worker.
// The git token is a short-lived installation token scoped to the clone; it
// travels in the signed request body and is never persisted on either side.
type BuildJob struct {
	JobID        uuid.UUID `json:"job_id"`
	RepoURL      string    `json:"repo_url"`
	GitToken     string    `json:"git_token"`
	Branch       string    `json:"branch"`
	CommitSHA    string    `json:"commit_sha"`
	PRNumber     *int      `json:"pr_number,omitempty"`
	Domain       string    `json:"domain"`
	Subdomain    *string   `json:"subdomain,omitempty"`
	SiteType     SiteType  `json:"site_type"`
	BuildCommand *string   `json:"build_command,omitempty"`
	OutputDir    *string   `json:"output_dir,omitempty"`
	CallbackURL  string    `json:"callback_url"`
	RepoName     string    `json:"repo_name"`
	OrgName      string    `json:"org_name"`
}

// Validate checks the fields a worker needs before accepting the job.
func (j *BuildJob) Validate() error {
	if j.JobID == uuid.Nil {
		return errors.New("job_id is required and cannot be empty")
	}
	if strings.TrimSpace(j.RepoURL) == "" {
		return errors.New("repo_url is required and cannot be empty")
	}
	if strings.TrimSpace(j.CommitSHA) == "" {
		return errors.New("commit_sha is required and cannot be empty")
	}
	if strings.TrimSpace(j.Domain) == "" {
		return errors.New("domain is required and cannot be empty")
	}
	if strings.TrimSpace(j.CallbackURL) == "" {
		return errors.New("callback_url is required and cannot be empty")
	}
	if strings.TrimSpace(j.OrgName) == "" || strings.TrimSpace(j.RepoName) == "" {
		return errors.New("org_name and repo_name are required and cannot be empty")
	}
	return nil
}

// IsPR reports whether this job deploys a PR preview rather than a main branch.
func (j *BuildJob) IsPR() bool {
	return j.PRNumber != nil
}

// CleanupJob removes a previously deployed site and its route.
type CleanupJob struct {
	JobID       uuid.UUID `json:"job_id"`
	SiteID      string    `json:"site_id"`
	Domain      *string   `json:"domain,omitempty"`
	CallbackURL string    `json:"callback_url"`
}

// Validate checks the fields a worker needs before accepting the cleanup.
func (j *CleanupJob) Validate() error {
	if j.JobID == uuid.Nil {
		return errors.New("job_id is required and cannot be empty")
	}
	if strings.TrimSpace(j.SiteID) == "" {
		return errors.New("site_id is required and cannot be empty")
	}
	if strings.TrimSpace(j.CallbackURL) == "" {
		return errors.New("callback_url is required and cannot be empty")
	}
	return nil
}

// StatusUpdate is the signed callback a worker sends back to Central.
// Warnings carry non-fatal conditions (such as degraded isolation) that must
// reach the operator and the PR comment even for a successful build.
type StatusUpdate struct {
	JobID        uuid.UUID `json:"job_id"`
	Status       JobStatus `json:"status"`
	DeployedURL  *string   `json:"deployed_url,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
}

// Validate checks the correlation key and the reported status.
func (u *StatusUpdate) Validate() error {
	if u.JobID == uuid.Nil {
		return errors.New("job_id is required and cannot be empty")
	}
	if !u.Status.Valid() {
		return errors.New("status must be one of: pending, building, success, failed, cleaned")
	}
	return nil
}
