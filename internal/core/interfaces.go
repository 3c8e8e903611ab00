package core

import (
	"context"

	"github.com/google/uuid"

	"github.com/halyard-dev/halyard/internal/data"
	"github.com/halyard-dev/halyard/internal/domain/model"
)

// This file contains repository and client interface definitions (ports in
// hexagonal architecture). These interfaces define the contracts between the
// orchestration layer and the data/transport layers. Service implementations
// should depend on these interfaces, not concrete implementations.

// ConfigRepository defines the interface for deployment config operations.
type ConfigRepository interface {
	Upsert(ctx context.Context, p data.UpsertParams) (*model.DeploymentConfig, error)
	GetByID(ctx context.Context, id string) (*model.DeploymentConfig, error)
	GetByOrgRepo(ctx context.Context, org, repo string) (*model.DeploymentConfig, error)
	ListEnabled(ctx context.Context, zone string) ([]*model.DeploymentConfig, error)
}

// RecordRepository defines the interface for deployment record operations.
type RecordRepository interface {
	Create(ctx context.Context, p data.CreateRecordParams) (*model.DeploymentRecord, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*model.DeploymentRecord, error)
	UpdateStatus(ctx context.Context, p data.UpdateStatusParams) (*model.DeploymentRecord, error)
	SetCommentID(ctx context.Context, jobID uuid.UUID, commentID int64) error
	LatestForPR(ctx context.Context, configID string, prNumber int) (*model.DeploymentRecord, error)
	FailStale(ctx context.Context, maxAgeSeconds int) (int64, error)
}

// CommentRepository defines the interface for PR comment tracking.
type CommentRepository interface {
	Get(ctx context.Context, org, repo string, prNumber int) (*model.PRComment, error)
	Upsert(ctx context.Context, org, repo string, prNumber int, commentID int64) (*model.PRComment, error)
	Delete(ctx context.Context, org, repo string, prNumber int) error
}

// WorkerRepository defines the interface for worker endpoint operations.
type WorkerRepository interface {
	SyncEndpoints(ctx context.Context, zones map[string]string) error
	GetByZone(ctx context.Context, zone string) (*model.WorkerEndpoint, error)
	ListEnabled(ctx context.Context) ([]*model.WorkerEndpoint, error)
	TouchLastSeen(ctx context.Context, zone string) error
}

// OrgRepository defines the interface for the deploy allow-list.
type OrgRepository interface {
	Create(ctx context.Context, p data.AuthorizedOrgParams) (*model.AuthorizedOrg, error)
	GetByOrg(ctx context.Context, org string) (*model.AuthorizedOrg, error)
	List(ctx context.Context) ([]*model.AuthorizedOrg, error)
	Update(ctx context.Context, org string, p data.AuthorizedOrgParams) (*model.AuthorizedOrg, error)
	Delete(ctx context.Context, org string) error
}

// DeliveryDeduper remembers webhook delivery GUIDs.
type DeliveryDeduper interface {
	MarkSeen(ctx context.Context, deliveryGUID string) (bool, error)
}

// CommentParams identifies a pull request for comment operations.
type CommentParams struct {
	InstallationID int64
	Org            string
	Repo           string
	PRNumber       int
}

// GitHubClient defines the GitHub App operations Central depends on.
type GitHubClient interface {
	// InstallationToken mints a short-lived token scoped to an installation.
	InstallationToken(ctx context.Context, installationID int64) (string, error)
	// FetchDeployConfig fetches and merges the org-level and repo-level
	// deploy config documents at the given ref.
	FetchDeployConfig(ctx context.Context, p FetchConfigParams) (*model.DeployConfig, error)
	// CreateComment posts a new PR comment and returns its ID.
	CreateComment(ctx context.Context, p CommentParams, body string) (int64, error)
	// UpdateComment edits an existing PR comment.
	UpdateComment(ctx context.Context, p CommentParams, commentID int64, body string) error
}

// FetchConfigParams identifies the repo and ref to read deploy configs from.
type FetchConfigParams struct {
	InstallationID int64
	Org            string
	Repo           string
	Ref            string
}

// JobDispatcher sends signed jobs to a worker endpoint.
type JobDispatcher interface {
	DispatchBuild(ctx context.Context, endpoint string, job *model.BuildJob) error
	DispatchCleanup(ctx context.Context, endpoint string, job *model.CleanupJob) error
	ProbeHealth(ctx context.Context, endpoint string) error
}

// StatusReporter sends signed status callbacks from a worker to Central.
type StatusReporter interface {
	Report(ctx context.Context, callbackURL string, update *model.StatusUpdate) error
}

// Cloner fetches repository contents at a commit into a local directory.
type Cloner interface {
	Clone(ctx context.Context, p CloneParams) error
}

// CloneParams identifies what to clone and where to.
type CloneParams struct {
	RepoURL   string
	Token     string
	Branch    string
	CommitSHA string
	Dir       string
}

// BuildResult carries the outcome of a sandboxed build.
type BuildResult struct {
	// Warnings lists non-fatal isolation or build conditions.
	Warnings []string
}

// BuildRunner executes a build command in an isolated container. On success
// the built site is present in ArtifactDir.
type BuildRunner interface {
	Run(ctx context.Context, p RunParams) (*BuildResult, error)
}

// RunParams describes one sandboxed build execution.
type RunParams struct {
	// SourceDir is the checked-out repository on the host.
	SourceDir string
	// ArtifactDir is the host directory that receives the build output.
	ArtifactDir string
	// BuildCommand is the shell command that produces the site.
	BuildCommand string
	// OutputDir is the directory the build writes, relative to the repo root.
	OutputDir string
	SiteID    string
}

// RouteSite describes one published site route.
type RouteSite struct {
	SiteID string
	Domain string
	// Root is the absolute directory the site is served from.
	Root string
}

// RouteManager publishes and removes reverse-proxy routes.
type RouteManager interface {
	PublishRoute(ctx context.Context, site RouteSite) error
	RemoveRoute(ctx context.Context, siteID string) error
	// ListRoutes returns the currently published sites.
	ListRoutes(ctx context.Context) ([]RouteSite, error)
}
