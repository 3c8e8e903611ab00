package central

import (
	"context"
	"errors"
	"log/slog"

	"github.com/halyard-dev/halyard/internal/core"
	"github.com/halyard-dev/halyard/internal/data"
	"github.com/halyard-dev/halyard/internal/domain/model"
)

// StatusService reconciles worker callbacks into deployment records and
// GitHub PR comments.
type StatusService struct {
	records core.RecordRepository
	gh      core.GitHubClient
	configs core.ConfigRepository
	logger  *slog.Logger
}

// StatusServiceOptions configures a StatusService.
type StatusServiceOptions struct {
	Records core.RecordRepository
	Configs core.ConfigRepository
	GitHub  core.GitHubClient
	Logger  *slog.Logger
}

// NewStatusService creates a StatusService.
func NewStatusService(opts StatusServiceOptions) *StatusService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusService{
		records: opts.Records,
		configs: opts.Configs,
		gh:      opts.GitHub,
		logger:  logger.With("component", "status"),
	}
}

// HandleUpdate applies one signed worker callback. Updates for unknown job
// IDs are acknowledged and dropped; workers must not retry forever because
// Central restarted or a cleanup raced a record. Re-reported terminal
// statuses are idempotent no-ops.
func (s *StatusService) HandleUpdate(ctx context.Context, update *model.StatusUpdate) error {
	logger := s.logger.With("job_id", update.JobID, "status", update.Status)

	record, err := s.records.GetByJobID(ctx, update.JobID)
	if err != nil {
		if errors.Is(err, data.ErrRecordNotFound) {
			logger.WarnContext(ctx, "status update for unknown job, acknowledging")
			return nil
		}
		return err
	}

	updated, err := s.records.UpdateStatus(ctx, data.UpdateStatusParams{
		JobID:        update.JobID,
		Status:       update.Status,
		DeployedURL:  update.DeployedURL,
		ErrorMessage: update.ErrorMessage,
	})
	if err != nil {
		if errors.Is(err, data.ErrIllegalTransition) {
			// A late or duplicate callback after the record settled.
			logger.WarnContext(ctx, "dropping illegal status transition",
				"current", record.Status)
			return nil
		}
		return err
	}

	logger.InfoContext(ctx, "applied status update",
		"deployed_url", update.DeployedURL, "warnings", len(update.Warnings))

	s.updateComment(ctx, updated, update, logger)
	return nil
}

// updateComment refreshes the PR comment for terminal statuses. Building,
// pending, and cleaned updates leave the comment alone: the building body
// was posted at dispatch time, and a cleaned PR needs no final edit.
func (s *StatusService) updateComment(ctx context.Context, record *model.DeploymentRecord, update *model.StatusUpdate, logger *slog.Logger) {
	if record.GitHubCommentID == nil || record.PRNumber == nil {
		return
	}

	var body string
	switch update.Status {
	case model.JobStatusSuccess:
		url := "(URL not available)"
		if update.DeployedURL != nil {
			url = *update.DeployedURL
		}
		body = SuccessComment(record.CommitSHA, url, update.Warnings)
	case model.JobStatusFailed:
		msg := ""
		if update.ErrorMessage != nil {
			msg = *update.ErrorMessage
		}
		body = FailureComment(record.CommitSHA, msg)
	default:
		return
	}

	cfg, err := s.configs.GetByID(ctx, record.ConfigID)
	if err != nil {
		logger.WarnContext(ctx, "cannot resolve repo for comment update", "err", err)
		return
	}

	err = s.gh.UpdateComment(ctx, core.CommentParams{
		InstallationID: record.InstallationID,
		Org:            cfg.GitHubOrg,
		Repo:           cfg.GitHubRepo,
		PRNumber:       *record.PRNumber,
	}, *record.GitHubCommentID, body)
	if err != nil {
		logger.WarnContext(ctx, "failed to update pr comment",
			"comment_id", *record.GitHubCommentID, "err", err)
		return
	}
	logger.InfoContext(ctx, "updated pr comment", "comment_id", *record.GitHubCommentID)
}
