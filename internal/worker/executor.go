// Package worker implements the build side of the deployment system: it
// accepts signed jobs from the orchestrator, builds sites in isolated
// containers, places artifacts, publishes routes, and reports signed status
// callbacks.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/halyard-dev/halyard/config"
	"github.com/halyard-dev/halyard/internal/core"
	"github.com/halyard-dev/halyard/internal/domain/model"
)

// ErrQueueFull means the bounded job queue has no room; the HTTP handler
// answers 503 and the orchestrator retries.
var ErrQueueFull = errors.New("job queue is full")

// task is one queued unit of work. Exactly one of build or cleanup is set.
type task struct {
	build   *model.BuildJob
	cleanup *model.CleanupJob
}

// Executor owns the bounded job queue and the pool of build workers.
type Executor struct {
	cfg      config.WorkerConfig
	cloner   core.Cloner
	runner   core.BuildRunner
	routes   core.RouteManager
	reporter core.StatusReporter
	logger   *slog.Logger
	queue    chan task
}

// ExecutorOptions configures an Executor.
type ExecutorOptions struct {
	Config   config.WorkerConfig
	Cloner   core.Cloner
	Runner   core.BuildRunner
	Routes   core.RouteManager
	Reporter core.StatusReporter
	Logger   *slog.Logger
}

// NewExecutor creates an Executor. The queue depth and concurrency come from
// the worker config.
func NewExecutor(opts ExecutorOptions) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		cfg:      opts.Config,
		cloner:   opts.Cloner,
		runner:   opts.Runner,
		routes:   opts.Routes,
		reporter: opts.Reporter,
		logger:   logger.With("component", "executor"),
		queue:    make(chan task, opts.Config.QueueDepth),
	}
}

// EnqueueBuild queues a build job without blocking.
func (e *Executor) EnqueueBuild(job *model.BuildJob) error {
	select {
	case e.queue <- task{build: job}:
		return nil
	default:
		return ErrQueueFull
	}
}

// EnqueueCleanup queues a cleanup job without blocking.
func (e *Executor) EnqueueCleanup(job *model.CleanupJob) error {
	select {
	case e.queue <- task{cleanup: job}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run processes queued jobs with a fixed-size worker pool until the context
// is cancelled.
func (e *Executor) Run(ctx context.Context) error {
	e.logger.InfoContext(ctx, "starting build executor",
		"concurrency", e.cfg.Concurrency, "queue_depth", e.cfg.QueueDepth)

	group, gctx := errgroup.WithContext(ctx)
	for range e.cfg.Concurrency {
		group.Go(func() error { return e.workerLoop(gctx) })
	}
	return group.Wait()
}

func (e *Executor) workerLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-e.queue:
			switch {
			case t.build != nil:
				e.processBuild(ctx, t.build)
			case t.cleanup != nil:
				e.processCleanup(ctx, t.cleanup)
			}
		}
	}
}

// processBuild runs one job end to end and reports the outcome. Every path
// out of here sends a status callback; a build whose callback cannot be
// delivered is logged and left for the orchestrator's stale-job reaper.
func (e *Executor) processBuild(ctx context.Context, job *model.BuildJob) {
	logger := e.logger.With("job_id", job.JobID, "org", job.OrgName, "repo", job.RepoName)
	logger.InfoContext(ctx, "starting build", "commit", job.CommitSHA, "pr", job.PRNumber)

	e.report(ctx, job.CallbackURL, &model.StatusUpdate{
		JobID:  job.JobID,
		Status: model.JobStatusBuilding,
	})

	buildCtx, cancel := context.WithTimeout(ctx, e.cfg.BuildTimeout)
	defer cancel()

	url, warnings, err := e.runPipeline(buildCtx, job)
	if err != nil {
		logger.ErrorContext(ctx, "build failed", "err", err)
		msg := err.Error()
		e.report(ctx, job.CallbackURL, &model.StatusUpdate{
			JobID:        job.JobID,
			Status:       model.JobStatusFailed,
			ErrorMessage: &msg,
		})
		return
	}

	logger.InfoContext(ctx, "build succeeded", "url", url, "warnings", len(warnings))
	e.report(ctx, job.CallbackURL, &model.StatusUpdate{
		JobID:       job.JobID,
		Status:      model.JobStatusSuccess,
		DeployedURL: &url,
		Warnings:    warnings,
	})
}

// runPipeline is clone, build, place, route. It returns the deployed URL and
// any non-fatal warnings.
func (e *Executor) runPipeline(ctx context.Context, job *model.BuildJob) (string, []string, error) {
	siteID := model.SiteID(job.OrgName, job.RepoName, job.PRNumber)

	workDir := filepath.Join(e.cfg.WorkDir, job.JobID.String())
	repoDir := filepath.Join(workDir, "repo")
	artifactDir := filepath.Join(workDir, "artifacts")
	if err := os.MkdirAll(artifactDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			e.logger.Warn("failed to remove work directory", "dir", workDir, "err", err)
		}
	}()

	cloneCtx, cancel := context.WithTimeout(ctx, e.cfg.CloneTimeout)
	defer cancel()
	if err := e.cloner.Clone(cloneCtx, core.CloneParams{
		RepoURL:   job.RepoURL,
		Token:     job.GitToken,
		Branch:    job.Branch,
		CommitSHA: job.CommitSHA,
		Dir:       repoDir,
	}); err != nil {
		return "", nil, fmt.Errorf("clone: %w", err)
	}

	spec, err := resolveBuildSpec(job, repoDir)
	if err != nil {
		return "", nil, err
	}

	result, err := e.runner.Run(ctx, core.RunParams{
		SourceDir:    repoDir,
		ArtifactDir:  artifactDir,
		BuildCommand: spec.BuildCommand,
		OutputDir:    spec.OutputDir,
		SiteID:       siteID,
	})
	if err != nil {
		return "", nil, fmt.Errorf("build: %w", err)
	}

	siteDir := filepath.Join(e.cfg.SitesDir, siteID)
	if err := placeSite(artifactDir, siteDir); err != nil {
		return "", nil, fmt.Errorf("place artifacts: %w", err)
	}

	if err := e.routes.PublishRoute(ctx, core.RouteSite{
		SiteID: siteID,
		Domain: job.Domain,
		Root:   siteDir,
	}); err != nil {
		return "", nil, fmt.Errorf("publish route: %w", err)
	}

	return model.DeployedURL(job.Domain), result.Warnings, nil
}

// processCleanup removes a site's route and its artifacts.
func (e *Executor) processCleanup(ctx context.Context, job *model.CleanupJob) {
	logger := e.logger.With("job_id", job.JobID, "site_id", job.SiteID)
	logger.InfoContext(ctx, "starting cleanup")

	if err := e.runCleanup(ctx, job); err != nil {
		logger.ErrorContext(ctx, "cleanup failed", "err", err)
		msg := err.Error()
		e.report(ctx, job.CallbackURL, &model.StatusUpdate{
			JobID:        job.JobID,
			Status:       model.JobStatusFailed,
			ErrorMessage: &msg,
		})
		return
	}

	logger.InfoContext(ctx, "cleanup complete")
	e.report(ctx, job.CallbackURL, &model.StatusUpdate{
		JobID:  job.JobID,
		Status: model.JobStatusCleaned,
	})
}

func (e *Executor) runCleanup(ctx context.Context, job *model.CleanupJob) error {
	if err := e.routes.RemoveRoute(ctx, job.SiteID); err != nil {
		return fmt.Errorf("remove route: %w", err)
	}
	siteDir := filepath.Join(e.cfg.SitesDir, job.SiteID)
	if err := os.RemoveAll(siteDir); err != nil {
		return fmt.Errorf("remove site directory: %w", err)
	}
	return nil
}

func (e *Executor) report(ctx context.Context, callbackURL string, update *model.StatusUpdate) {
	if err := e.reporter.Report(ctx, callbackURL, update); err != nil {
		e.logger.ErrorContext(ctx, "status callback failed",
			"job_id", update.JobID, "status", update.Status, "err", err)
	}
}

// resolveBuildSpec turns the job's (possibly auto) site type into a concrete
// build plan, detecting the type from the cloned tree when needed.
func resolveBuildSpec(job *model.BuildJob, repoDir string) (model.BuildSpec, error) {
	siteType := job.SiteType
	if siteType == "" || siteType == model.SiteTypeAuto {
		detected, err := detectSiteType(repoDir)
		if err != nil {
			return model.BuildSpec{}, err
		}
		if detected == model.SiteTypeAuto {
			return model.BuildSpec{}, fmt.Errorf("could not detect site type and none was configured")
		}
		siteType = detected
	}
	return model.ResolveBuildSpec(siteType, job.BuildCommand, job.OutputDir)
}

// detectSiteType lists the repo root and applies the pure detection heuristic.
func detectSiteType(repoDir string) (model.SiteType, error) {
	entries, err := os.ReadDir(repoDir)
	if err != nil {
		return model.SiteTypeAuto, fmt.Errorf("list repository root: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	var configTOML string
	if data, err := os.ReadFile(filepath.Join(repoDir, "config.toml")); err == nil {
		configTOML = string(data)
	}
	return model.DetectSiteType(names, configTOML), nil
}

// placeSite moves the built artifacts into their serving directory. The swap
// uses rename so a live site is never half-replaced; a cross-device rename
// falls back to removing and renaming again after the old tree is parked.
func placeSite(artifactDir, siteDir string) error {
	if err := os.MkdirAll(filepath.Dir(siteDir), 0o755); err != nil {
		return err
	}

	old := siteDir + ".old"
	// A leftover .old from a crashed deploy must not block this one.
	if err := os.RemoveAll(old); err != nil {
		return err
	}

	hadPrevious := false
	if _, err := os.Stat(siteDir); err == nil {
		hadPrevious = true
		if err := os.Rename(siteDir, old); err != nil {
			return err
		}
	}

	if err := os.Rename(artifactDir, siteDir); err != nil {
		// Likely a cross-device link; copy instead.
		if copyErr := copyDir(artifactDir, siteDir); copyErr != nil {
			if hadPrevious {
				_ = os.Rename(old, siteDir)
			}
			return copyErr
		}
	}

	if hadPrevious {
		if err := os.RemoveAll(old); err != nil {
			return err
		}
	}
	return nil
}

// copyDir copies the contents of src into a fresh dst directory.
func copyDir(src, dst string) error {
	return os.CopyFS(dst, os.DirFS(src))
}
