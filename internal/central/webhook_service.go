package central

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/halyard-dev/halyard/internal/core"
	"github.com/halyard-dev/halyard/internal/data"
	"github.com/halyard-dev/halyard/internal/domain/model"
	"github.com/halyard-dev/halyard/internal/github"
)

// Authorization failures surfaced by webhook processing. These are operator
// configuration problems and are logged, never retried.
var (
	ErrOrgNotAuthorized    = errors.New("organization is not authorized to deploy")
	ErrZoneNotAuthorized   = errors.New("organization is not authorized for this zone")
	ErrDomainNotAuthorized = errors.New("organization is not authorized for this domain")
)

// WebhookService turns verified GitHub webhooks into dispatched jobs.
type WebhookService struct {
	configs    core.ConfigRepository
	records    core.RecordRepository
	comments   core.CommentRepository
	orgs       core.OrgRepository
	workers    core.WorkerRepository
	dedup      core.DeliveryDeduper
	gh         core.GitHubClient
	dispatcher core.JobDispatcher
	callback   string
	logger     *slog.Logger
}

// WebhookServiceOptions configures a WebhookService.
type WebhookServiceOptions struct {
	Configs    core.ConfigRepository
	Records    core.RecordRepository
	Comments   core.CommentRepository
	Orgs       core.OrgRepository
	Workers    core.WorkerRepository
	Dedup      core.DeliveryDeduper
	GitHub     core.GitHubClient
	Dispatcher core.JobDispatcher
	// CallbackBaseURL is Central's external base URL; workers report status
	// to CallbackBaseURL + "/api/status".
	CallbackBaseURL string
	Logger          *slog.Logger
}

// NewWebhookService creates a WebhookService.
func NewWebhookService(opts WebhookServiceOptions) *WebhookService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookService{
		configs:    opts.Configs,
		records:    opts.Records,
		comments:   opts.Comments,
		orgs:       opts.Orgs,
		workers:    opts.Workers,
		dedup:      opts.Dedup,
		gh:         opts.GitHub,
		dispatcher: opts.Dispatcher,
		callback:   opts.CallbackBaseURL + "/api/status",
		logger:     logger.With("component", "webhook"),
	}
}

// ProcessEvent handles one verified webhook delivery. The HTTP handler has
// already acknowledged the delivery; failures here are logged and reflected
// in deployment records, never surfaced back to GitHub.
func (s *WebhookService) ProcessEvent(ctx context.Context, eventType, deliveryGUID string, payload []byte) error {
	if deliveryGUID != "" {
		first, err := s.dedup.MarkSeen(ctx, deliveryGUID)
		if err != nil {
			// Dedup is best-effort; processing twice is safer than dropping.
			s.logger.WarnContext(ctx, "delivery dedup unavailable", "err", err)
		} else if !first {
			s.logger.InfoContext(ctx, "skipping redelivered webhook", "delivery", deliveryGUID)
			return nil
		}
	}

	event, err := github.ParseWebhookEvent(eventType, payload)
	if err != nil {
		return err
	}

	switch {
	case event.PullRequest != nil:
		return s.processPullRequest(ctx, event.PullRequest)
	case event.Push != nil:
		return s.processPush(ctx, event.Push)
	case event.Ping:
		s.logger.InfoContext(ctx, "received ping event")
		return nil
	default:
		s.logger.DebugContext(ctx, "ignoring unknown event type", "event_type", event.Unknown)
		return nil
	}
}

// deployTarget is the resolved state shared by PR and push processing.
type deployTarget struct {
	org            string
	repo           string
	installationID int64
	deployCfg      *model.DeployConfig
	auth           *model.AuthorizedOrg
	worker         *model.WorkerEndpoint
	zone           string
}

// resolveTarget fetches the deploy config and checks org and zone
// authorization. A nil target with nil error means the repo opted out.
func (s *WebhookService) resolveTarget(ctx context.Context, org, repo, ref string, installationID int64) (*deployTarget, error) {
	cfg, err := s.gh.FetchDeployConfig(ctx, core.FetchConfigParams{
		InstallationID: installationID,
		Org:            org,
		Repo:           repo,
		Ref:            ref,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch deploy config for %s/%s: %w", org, repo, err)
	}
	if !cfg.Deployable() {
		s.logger.DebugContext(ctx, "deployment disabled or no zone configured",
			"org", org, "repo", repo)
		return nil, nil
	}
	zone := *cfg.Zone

	auth, err := s.orgs.GetByOrg(ctx, org)
	if err != nil {
		if errors.Is(err, data.ErrOrgNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrOrgNotAuthorized, org)
		}
		return nil, err
	}
	if !auth.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrOrgNotAuthorized, org)
	}
	if !auth.CanUseZone(zone) {
		return nil, fmt.Errorf("%w: org %s, zone %s", ErrZoneNotAuthorized, org, zone)
	}

	worker, err := s.workers.GetByZone(ctx, zone)
	if err != nil {
		return nil, fmt.Errorf("no worker for zone %q: %w", zone, err)
	}

	return &deployTarget{
		org:            org,
		repo:           repo,
		installationID: installationID,
		deployCfg:      cfg,
		auth:           auth,
		worker:         worker,
		zone:           zone,
	}, nil
}

func (s *WebhookService) processPullRequest(ctx context.Context, event *github.PullRequestEvent) error {
	org := event.Repository.OrgName()
	repo := event.Repository.Name
	logger := s.logger.With("org", org, "repo", repo, "pr", event.Number, "action", event.Action)

	if !event.IsDeployAction() && event.Action != github.ActionClosed {
		logger.DebugContext(ctx, "ignoring pr action")
		return nil
	}
	if event.Installation == nil {
		return errors.New("webhook is missing installation id")
	}

	ref := event.PullRequest.Head.SHA
	if event.Action == github.ActionClosed {
		// The head ref may be gone after a merge; read config from the
		// default branch instead.
		ref = ""
	}

	target, err := s.resolveTarget(ctx, org, repo, ref, event.Installation.ID)
	if err != nil || target == nil {
		return err
	}

	if event.Action == github.ActionClosed {
		return s.dispatchPRCleanup(ctx, target, event, logger)
	}
	return s.dispatchPRBuild(ctx, target, event, logger)
}

func (s *WebhookService) dispatchPRBuild(ctx context.Context, target *deployTarget, event *github.PullRequestEvent, logger *slog.Logger) error {
	domain, err := target.deployCfg.ResolvePRDomain(target.repo, event.Number)
	if err != nil {
		return err
	}
	if !target.auth.CanUseDomain(domain) {
		return fmt.Errorf("%w: org %s, domain %s", ErrDomainNotAuthorized, target.org, domain)
	}

	cfgRow, err := s.upsertConfigRow(ctx, target)
	if err != nil {
		return err
	}

	jobID := uuid.New()
	record, err := s.records.Create(ctx, data.CreateRecordParams{
		ConfigID:       cfgRow.ID,
		JobID:          jobID,
		DeploymentType: model.DeploymentTypePR,
		PRNumber:       &event.Number,
		Branch:         event.PullRequest.Head.Branch,
		CommitSHA:      event.PullRequest.Head.SHA,
		InstallationID: target.installationID,
	})
	if err != nil {
		return err
	}

	commentID, err := s.ensureBuildingComment(ctx, target, event)
	if err != nil {
		// A missing comment should not block the deployment.
		logger.WarnContext(ctx, "failed to post building comment", "err", err)
	} else if err := s.records.SetCommentID(ctx, jobID, commentID); err != nil {
		logger.WarnContext(ctx, "failed to track comment id", "err", err)
	}

	token, err := s.gh.InstallationToken(ctx, target.installationID)
	if err != nil {
		return s.failDispatch(ctx, target, record, fmt.Errorf("mint git token: %w", err))
	}

	job := &model.BuildJob{
		JobID:        jobID,
		RepoURL:      event.Repository.CloneURL,
		GitToken:     token,
		Branch:       event.PullRequest.Head.Branch,
		CommitSHA:    event.PullRequest.Head.SHA,
		PRNumber:     &event.Number,
		Domain:       domain,
		SiteType:     target.deployCfg.EffectiveSiteType(),
		BuildCommand: target.deployCfg.BuildCommand,
		OutputDir:    target.deployCfg.OutputDir,
		CallbackURL:  s.callback,
		RepoName:     target.repo,
		OrgName:      target.org,
	}
	if err := s.dispatcher.DispatchBuild(ctx, target.worker.Endpoint, job); err != nil {
		return s.failDispatch(ctx, target, record, err)
	}

	logger.InfoContext(ctx, "dispatched pr build job",
		"job_id", jobID, "domain", domain, "zone", target.zone)
	return nil
}

func (s *WebhookService) dispatchPRCleanup(ctx context.Context, target *deployTarget, event *github.PullRequestEvent, logger *slog.Logger) error {
	// Reuse the job id of the last successful build so the worker's
	// "cleaned" callback transitions that record. If none exists, a fresh
	// id makes the callback a harmless no-op ack.
	jobID := uuid.New()
	var domain *string
	if d, err := target.deployCfg.ResolvePRDomain(target.repo, event.Number); err == nil {
		domain = &d
	}
	if cfgRow, err := s.configs.GetByOrgRepo(ctx, target.org, target.repo); err == nil {
		if rec, err := s.records.LatestForPR(ctx, cfgRow.ID, event.Number); err == nil && rec.Status == model.JobStatusSuccess {
			jobID = rec.JobID
		}
	}

	job := &model.CleanupJob{
		JobID:       jobID,
		SiteID:      model.SiteID(target.org, target.repo, &event.Number),
		Domain:      domain,
		CallbackURL: s.callback,
	}
	if err := s.dispatcher.DispatchCleanup(ctx, target.worker.Endpoint, job); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, target.org, target.repo, event.Number); err != nil {
		logger.WarnContext(ctx, "failed to delete pr comment tracking", "err", err)
	}

	logger.InfoContext(ctx, "dispatched cleanup job",
		"job_id", job.JobID, "site_id", job.SiteID, "zone", target.zone)
	return nil
}

func (s *WebhookService) processPush(ctx context.Context, event *github.PushEvent) error {
	org := event.Repository.OrgName()
	repo := event.Repository.Name
	logger := s.logger.With("org", org, "repo", repo, "commit", event.After)

	if !event.IsMainBranch() {
		logger.DebugContext(ctx, "ignoring non-main branch push", "ref", event.Ref)
		return nil
	}
	if event.IsBranchDeleted() {
		logger.DebugContext(ctx, "ignoring branch deletion push")
		return nil
	}
	if event.Installation == nil {
		return errors.New("webhook is missing installation id")
	}

	target, err := s.resolveTarget(ctx, org, repo, event.After, event.Installation.ID)
	if err != nil || target == nil {
		return err
	}

	domain, err := target.deployCfg.ResolveMainDomain(repo)
	if err != nil {
		return err
	}
	if !target.auth.CanUseDomain(domain) {
		return fmt.Errorf("%w: org %s, domain %s", ErrDomainNotAuthorized, org, domain)
	}

	cfgRow, err := s.upsertConfigRow(ctx, target)
	if err != nil {
		return err
	}

	jobID := uuid.New()
	branch := event.BranchName()
	record, err := s.records.Create(ctx, data.CreateRecordParams{
		ConfigID:       cfgRow.ID,
		JobID:          jobID,
		DeploymentType: model.DeploymentTypeMain,
		Branch:         branch,
		CommitSHA:      event.After,
		InstallationID: target.installationID,
	})
	if err != nil {
		return err
	}

	token, err := s.gh.InstallationToken(ctx, target.installationID)
	if err != nil {
		return s.failDispatch(ctx, target, record, fmt.Errorf("mint git token: %w", err))
	}

	job := &model.BuildJob{
		JobID:        jobID,
		RepoURL:      event.Repository.CloneURL,
		GitToken:     token,
		Branch:       branch,
		CommitSHA:    event.After,
		Domain:       domain,
		Subdomain:    target.deployCfg.Subdomain,
		SiteType:     target.deployCfg.EffectiveSiteType(),
		BuildCommand: target.deployCfg.BuildCommand,
		OutputDir:    target.deployCfg.OutputDir,
		CallbackURL:  s.callback,
		RepoName:     repo,
		OrgName:      org,
	}
	if err := s.dispatcher.DispatchBuild(ctx, target.worker.Endpoint, job); err != nil {
		return s.failDispatch(ctx, target, record, err)
	}

	logger.InfoContext(ctx, "dispatched main branch build job",
		"job_id", jobID, "domain", domain, "zone", target.zone)
	return nil
}

// upsertConfigRow persists the resolved config so status reconciliation and
// route restoration do not depend on webhook-time state.
func (s *WebhookService) upsertConfigRow(ctx context.Context, target *deployTarget) (*model.DeploymentConfig, error) {
	return s.configs.Upsert(ctx, data.UpsertParams{
		GitHubOrg:      target.org,
		GitHubRepo:     target.repo,
		InstallationID: target.installationID,
		Zone:           target.zone,
		Domain:         target.deployCfg.Domain,
		Subdomain:      target.deployCfg.Subdomain,
		SiteType:       target.deployCfg.EffectiveSiteType(),
		Enabled:        target.deployCfg.IsEnabled(),
	})
}

// ensureBuildingComment creates or updates the PR's status comment.
func (s *WebhookService) ensureBuildingComment(ctx context.Context, target *deployTarget, event *github.PullRequestEvent) (int64, error) {
	body := BuildingComment(event.PullRequest.Head.SHA)
	params := core.CommentParams{
		InstallationID: target.installationID,
		Org:            target.org,
		Repo:           target.repo,
		PRNumber:       event.Number,
	}

	existing, err := s.comments.Get(ctx, target.org, target.repo, event.Number)
	if err == nil {
		if err := s.gh.UpdateComment(ctx, params, existing.CommentID, body); err != nil {
			return 0, err
		}
		return existing.CommentID, nil
	}
	if !errors.Is(err, data.ErrCommentNotFound) {
		return 0, err
	}

	commentID, err := s.gh.CreateComment(ctx, params, body)
	if err != nil {
		return 0, err
	}
	if _, err := s.comments.Upsert(ctx, target.org, target.repo, event.Number, commentID); err != nil {
		return 0, err
	}
	return commentID, nil
}

// failDispatch marks a record failed when its job never reached a worker and
// flips its PR comment to the failure state. No worker callback will arrive
// for these jobs, so a stale "in progress" comment would stay forever.
func (s *WebhookService) failDispatch(ctx context.Context, target *deployTarget, record *model.DeploymentRecord, cause error) error {
	msg := cause.Error()
	if _, err := s.records.UpdateStatus(ctx, data.UpdateStatusParams{
		JobID:        record.JobID,
		Status:       model.JobStatusFailed,
		ErrorMessage: &msg,
	}); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark record failed",
			"job_id", record.JobID, "err", err)
	}

	if record.PRNumber != nil {
		existing, err := s.comments.Get(ctx, target.org, target.repo, *record.PRNumber)
		if err == nil {
			params := core.CommentParams{
				InstallationID: target.installationID,
				Org:            target.org,
				Repo:           target.repo,
				PRNumber:       *record.PRNumber,
			}
			if err := s.gh.UpdateComment(ctx, params, existing.CommentID, FailureComment(record.CommitSHA, msg)); err != nil {
				s.logger.WarnContext(ctx, "failed to update pr comment after dispatch failure",
					"job_id", record.JobID, "err", err)
			}
		} else if !errors.Is(err, data.ErrCommentNotFound) {
			s.logger.WarnContext(ctx, "failed to look up pr comment after dispatch failure",
				"job_id", record.JobID, "err", err)
		}
	}
	return cause
}
