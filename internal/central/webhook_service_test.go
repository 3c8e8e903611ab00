package central

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/halyard-dev/halyard/internal/core"
	"github.com/halyard-dev/halyard/internal/data"
	"github.com/halyard-dev/halyard/internal/domain/model"
	"github.com/halyard-dev/halyard/internal/github"
	"github.com/halyard-dev/halyard/internal/mocks"
)

type webhookMocks struct {
	configs    *mocks.MockConfigRepository
	records    *mocks.MockRecordRepository
	comments   *mocks.MockCommentRepository
	orgs       *mocks.MockOrgRepository
	workers    *mocks.MockWorkerRepository
	dedup      *mocks.MockDeliveryDeduper
	gh         *mocks.MockGitHubClient
	dispatcher *mocks.MockJobDispatcher
}

func newWebhookService(t *testing.T) (*WebhookService, *webhookMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &webhookMocks{
		configs:    mocks.NewMockConfigRepository(ctrl),
		records:    mocks.NewMockRecordRepository(ctrl),
		comments:   mocks.NewMockCommentRepository(ctrl),
		orgs:       mocks.NewMockOrgRepository(ctrl),
		workers:    mocks.NewMockWorkerRepository(ctrl),
		dedup:      mocks.NewMockDeliveryDeduper(ctrl),
		gh:         mocks.NewMockGitHubClient(ctrl),
		dispatcher: mocks.NewMockJobDispatcher(ctrl),
	}
	svc := NewWebhookService(WebhookServiceOptions{
		Configs:         m.configs,
		Records:         m.records,
		Comments:        m.comments,
		Orgs:            m.orgs,
		Workers:         m.workers,
		Dedup:           m.dedup,
		GitHub:          m.gh,
		Dispatcher:      m.dispatcher,
		CallbackBaseURL: "https://central.example.com",
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return svc, m
}

func strPtr(s string) *string { return &s }

func prEventPayload(t *testing.T, action string, prNumber int) []byte {
	t.Helper()
	payload, err := json.Marshal(github.PullRequestEvent{
		Action: action,
		Number: prNumber,
		PullRequest: github.PullRequestInfo{
			Head: github.PullRequestHead{Branch: "feature", SHA: "abc1234def5678"},
		},
		Repository: github.Repository{
			Name:     "website",
			FullName: "acme/website",
			CloneURL: "https://github.com/acme/website.git",
			Owner:    github.RepositoryOwner{Login: "acme"},
		},
		Installation: &github.Installation{ID: 777},
	})
	require.NoError(t, err)
	return payload
}

func pushEventPayload(t *testing.T, ref string) []byte {
	t.Helper()
	payload, err := json.Marshal(github.PushEvent{
		Ref:   ref,
		After: "abc1234def5678",
		Repository: github.Repository{
			Name:     "website",
			FullName: "acme/website",
			CloneURL: "https://github.com/acme/website.git",
			Owner:    github.RepositoryOwner{Login: "acme"},
		},
		Installation: &github.Installation{ID: 777},
	})
	require.NoError(t, err)
	return payload
}

func deployableConfig() *model.DeployConfig {
	return &model.DeployConfig{
		Zone:          strPtr("production"),
		PRPattern:     strPtr("{repo}-pr-{pr}.example.com"),
		DomainPattern: strPtr("{repo}.example.com"),
	}
}

func authorizedOrg() *model.AuthorizedOrg {
	return &model.AuthorizedOrg{
		GitHubOrg:      "acme",
		Zones:          []string{"production"},
		DomainPatterns: []string{"*.example.com"},
		Enabled:        true,
	}
}

func productionWorker() *model.WorkerEndpoint {
	return &model.WorkerEndpoint{Zone: "production", Endpoint: "https://worker.example.com", Enabled: true}
}

func TestProcessEventSkipsRedeliveredWebhook(t *testing.T) {
	svc, m := newWebhookService(t)
	m.dedup.EXPECT().MarkSeen(gomock.Any(), "delivery-1").Return(false, nil)

	err := svc.ProcessEvent(context.Background(), github.EventTypePullRequest, "delivery-1", prEventPayload(t, github.ActionOpened, 7))
	assert.NoError(t, err)
}

func TestProcessEventIgnoresUnknownEventType(t *testing.T) {
	svc, m := newWebhookService(t)
	m.dedup.EXPECT().MarkSeen(gomock.Any(), "delivery-2").Return(true, nil)

	err := svc.ProcessEvent(context.Background(), "issues", "delivery-2", []byte(`{}`))
	assert.NoError(t, err)
}

func TestProcessPullRequestOpenedDispatchesBuild(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()

	m.dedup.EXPECT().MarkSeen(ctx, "delivery-3").Return(true, nil)
	m.gh.EXPECT().FetchDeployConfig(ctx, core.FetchConfigParams{
		InstallationID: 777, Org: "acme", Repo: "website", Ref: "abc1234def5678",
	}).Return(deployableConfig(), nil)
	m.orgs.EXPECT().GetByOrg(ctx, "acme").Return(authorizedOrg(), nil)
	m.workers.EXPECT().GetByZone(ctx, "production").Return(productionWorker(), nil)
	m.configs.EXPECT().Upsert(ctx, gomock.Any()).Return(&model.DeploymentConfig{ID: "cfg-1"}, nil)

	var jobID uuid.UUID
	m.records.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p data.CreateRecordParams) (*model.DeploymentRecord, error) {
			jobID = p.JobID
			assert.Equal(t, model.DeploymentTypePR, p.DeploymentType)
			assert.Equal(t, "cfg-1", p.ConfigID)
			require.NotNil(t, p.PRNumber)
			assert.Equal(t, 7, *p.PRNumber)
			return &model.DeploymentRecord{JobID: p.JobID, Status: model.JobStatusPending}, nil
		})

	m.comments.EXPECT().Get(ctx, "acme", "website", 7).Return(&model.PRComment{CommentID: 42}, nil)
	m.gh.EXPECT().UpdateComment(ctx, gomock.Any(), int64(42), gomock.Any()).Return(nil)
	m.records.EXPECT().SetCommentID(ctx, gomock.Any(), int64(42)).Return(nil)
	m.gh.EXPECT().InstallationToken(ctx, int64(777)).Return("ghs_token", nil)

	m.dispatcher.EXPECT().DispatchBuild(ctx, "https://worker.example.com", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, job *model.BuildJob) error {
			assert.Equal(t, jobID, job.JobID)
			assert.Equal(t, "website-pr-7.example.com", job.Domain)
			assert.Equal(t, "ghs_token", job.GitToken)
			assert.Equal(t, "https://central.example.com/api/status", job.CallbackURL)
			assert.Equal(t, model.SiteTypeAuto, job.SiteType)
			require.NotNil(t, job.PRNumber)
			assert.Equal(t, 7, *job.PRNumber)
			return nil
		})

	err := svc.ProcessEvent(ctx, github.EventTypePullRequest, "delivery-3", prEventPayload(t, github.ActionOpened, 7))
	assert.NoError(t, err)
}

func TestProcessPullRequestClosedDispatchesCleanup(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()
	lastJobID := uuid.New()

	m.dedup.EXPECT().MarkSeen(ctx, "delivery-4").Return(true, nil)
	// The head ref may be gone after a merge; config is read from the
	// default branch.
	m.gh.EXPECT().FetchDeployConfig(ctx, core.FetchConfigParams{
		InstallationID: 777, Org: "acme", Repo: "website", Ref: "",
	}).Return(deployableConfig(), nil)
	m.orgs.EXPECT().GetByOrg(ctx, "acme").Return(authorizedOrg(), nil)
	m.workers.EXPECT().GetByZone(ctx, "production").Return(productionWorker(), nil)
	m.configs.EXPECT().GetByOrgRepo(ctx, "acme", "website").Return(&model.DeploymentConfig{ID: "cfg-1"}, nil)
	m.records.EXPECT().LatestForPR(ctx, "cfg-1", 7).Return(
		&model.DeploymentRecord{JobID: lastJobID, Status: model.JobStatusSuccess}, nil)

	m.dispatcher.EXPECT().DispatchCleanup(ctx, "https://worker.example.com", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, job *model.CleanupJob) error {
			assert.Equal(t, lastJobID, job.JobID)
			assert.Equal(t, "acme-website-pr-7", job.SiteID)
			require.NotNil(t, job.Domain)
			assert.Equal(t, "website-pr-7.example.com", *job.Domain)
			return nil
		})
	m.comments.EXPECT().Delete(ctx, "acme", "website", 7).Return(nil)

	err := svc.ProcessEvent(ctx, github.EventTypePullRequest, "delivery-4", prEventPayload(t, github.ActionClosed, 7))
	assert.NoError(t, err)
}

func TestProcessPullRequestIgnoresNonDeployAction(t *testing.T) {
	svc, m := newWebhookService(t)
	m.dedup.EXPECT().MarkSeen(gomock.Any(), "delivery-5").Return(true, nil)

	err := svc.ProcessEvent(context.Background(), github.EventTypePullRequest, "delivery-5", prEventPayload(t, "labeled", 7))
	assert.NoError(t, err)
}

func TestProcessPullRequestRejectsUnknownOrg(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()

	m.dedup.EXPECT().MarkSeen(ctx, "delivery-6").Return(true, nil)
	m.gh.EXPECT().FetchDeployConfig(ctx, gomock.Any()).Return(deployableConfig(), nil)
	m.orgs.EXPECT().GetByOrg(ctx, "acme").Return(nil, data.ErrOrgNotFound)

	err := svc.ProcessEvent(ctx, github.EventTypePullRequest, "delivery-6", prEventPayload(t, github.ActionOpened, 7))
	assert.ErrorIs(t, err, ErrOrgNotAuthorized)
}

func TestProcessPullRequestRejectsUnauthorizedZone(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()

	auth := authorizedOrg()
	auth.Zones = []string{"staging"}

	m.dedup.EXPECT().MarkSeen(ctx, "delivery-7").Return(true, nil)
	m.gh.EXPECT().FetchDeployConfig(ctx, gomock.Any()).Return(deployableConfig(), nil)
	m.orgs.EXPECT().GetByOrg(ctx, "acme").Return(auth, nil)

	err := svc.ProcessEvent(ctx, github.EventTypePullRequest, "delivery-7", prEventPayload(t, github.ActionOpened, 7))
	assert.ErrorIs(t, err, ErrZoneNotAuthorized)
}

func TestProcessPullRequestRejectsUnauthorizedDomain(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()

	auth := authorizedOrg()
	auth.DomainPatterns = []string{"*.other.net"}

	m.dedup.EXPECT().MarkSeen(ctx, "delivery-8").Return(true, nil)
	m.gh.EXPECT().FetchDeployConfig(ctx, gomock.Any()).Return(deployableConfig(), nil)
	m.orgs.EXPECT().GetByOrg(ctx, "acme").Return(auth, nil)
	m.workers.EXPECT().GetByZone(ctx, "production").Return(productionWorker(), nil)

	err := svc.ProcessEvent(ctx, github.EventTypePullRequest, "delivery-8", prEventPayload(t, github.ActionOpened, 7))
	assert.ErrorIs(t, err, ErrDomainNotAuthorized)
}

func TestProcessPullRequestSkipsOptedOutRepo(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()

	m.dedup.EXPECT().MarkSeen(ctx, "delivery-9").Return(true, nil)
	m.gh.EXPECT().FetchDeployConfig(ctx, gomock.Any()).Return(&model.DeployConfig{}, nil)

	err := svc.ProcessEvent(ctx, github.EventTypePullRequest, "delivery-9", prEventPayload(t, github.ActionOpened, 7))
	assert.NoError(t, err)
}

func TestProcessPushDispatchesMainBuild(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()

	m.dedup.EXPECT().MarkSeen(ctx, "delivery-10").Return(true, nil)
	m.gh.EXPECT().FetchDeployConfig(ctx, core.FetchConfigParams{
		InstallationID: 777, Org: "acme", Repo: "website", Ref: "abc1234def5678",
	}).Return(deployableConfig(), nil)
	m.orgs.EXPECT().GetByOrg(ctx, "acme").Return(authorizedOrg(), nil)
	m.workers.EXPECT().GetByZone(ctx, "production").Return(productionWorker(), nil)
	m.configs.EXPECT().Upsert(ctx, gomock.Any()).Return(&model.DeploymentConfig{ID: "cfg-1"}, nil)
	m.records.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p data.CreateRecordParams) (*model.DeploymentRecord, error) {
			assert.Equal(t, model.DeploymentTypeMain, p.DeploymentType)
			assert.Nil(t, p.PRNumber)
			assert.Equal(t, "main", p.Branch)
			return &model.DeploymentRecord{JobID: p.JobID, Status: model.JobStatusPending}, nil
		})
	m.gh.EXPECT().InstallationToken(ctx, int64(777)).Return("ghs_token", nil)
	m.dispatcher.EXPECT().DispatchBuild(ctx, "https://worker.example.com", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, job *model.BuildJob) error {
			assert.Equal(t, "website.example.com", job.Domain)
			assert.Nil(t, job.PRNumber)
			assert.Equal(t, "main", job.Branch)
			return nil
		})

	err := svc.ProcessEvent(ctx, github.EventTypePush, "delivery-10", pushEventPayload(t, "refs/heads/main"))
	assert.NoError(t, err)
}

func TestProcessPushIgnoresFeatureBranch(t *testing.T) {
	svc, m := newWebhookService(t)
	m.dedup.EXPECT().MarkSeen(gomock.Any(), "delivery-11").Return(true, nil)

	err := svc.ProcessEvent(context.Background(), github.EventTypePush, "delivery-11", pushEventPayload(t, "refs/heads/feature"))
	assert.NoError(t, err)
}

func TestDispatchFailureMarksRecordFailed(t *testing.T) {
	svc, m := newWebhookService(t)
	ctx := context.Background()

	m.dedup.EXPECT().MarkSeen(ctx, "delivery-12").Return(true, nil)
	m.gh.EXPECT().FetchDeployConfig(ctx, gomock.Any()).Return(deployableConfig(), nil)
	m.orgs.EXPECT().GetByOrg(ctx, "acme").Return(authorizedOrg(), nil)
	m.workers.EXPECT().GetByZone(ctx, "production").Return(productionWorker(), nil)
	m.configs.EXPECT().Upsert(ctx, gomock.Any()).Return(&model.DeploymentConfig{ID: "cfg-1"}, nil)
	m.records.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p data.CreateRecordParams) (*model.DeploymentRecord, error) {
			return &model.DeploymentRecord{
				JobID:     p.JobID,
				Status:    model.JobStatusPending,
				PRNumber:  p.PRNumber,
				CommitSHA: p.CommitSHA,
			}, nil
		})
	m.comments.EXPECT().Get(ctx, "acme", "website", 7).Return(nil, data.ErrCommentNotFound)
	m.gh.EXPECT().CreateComment(ctx, gomock.Any(), gomock.Any()).Return(int64(42), nil)
	m.comments.EXPECT().Upsert(ctx, "acme", "website", 7, int64(42)).Return(&model.PRComment{CommentID: 42}, nil)
	m.records.EXPECT().SetCommentID(ctx, gomock.Any(), int64(42)).Return(nil)
	m.gh.EXPECT().InstallationToken(ctx, int64(777)).Return("ghs_token", nil)
	m.dispatcher.EXPECT().DispatchBuild(ctx, gomock.Any(), gomock.Any()).Return(assert.AnError)

	m.records.EXPECT().UpdateStatus(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p data.UpdateStatusParams) (*model.DeploymentRecord, error) {
			assert.Equal(t, model.JobStatusFailed, p.Status)
			require.NotNil(t, p.ErrorMessage)
			return &model.DeploymentRecord{JobID: p.JobID, Status: model.JobStatusFailed}, nil
		})
	// The job will never produce a callback, so the "in progress"
	// comment must flip to failed here.
	m.comments.EXPECT().Get(ctx, "acme", "website", 7).Return(&model.PRComment{CommentID: 42}, nil)
	m.gh.EXPECT().UpdateComment(ctx, gomock.Any(), int64(42), gomock.Any()).DoAndReturn(
		func(_ context.Context, p core.CommentParams, _ int64, body string) error {
			assert.Equal(t, "acme", p.Org)
			assert.Equal(t, "website", p.Repo)
			assert.Equal(t, 7, p.PRNumber)
			assert.Contains(t, body, "Deployment failed")
			assert.Contains(t, body, assert.AnError.Error())
			return nil
		})

	err := svc.ProcessEvent(ctx, github.EventTypePullRequest, "delivery-12", prEventPayload(t, github.ActionOpened, 7))
	assert.ErrorIs(t, err, assert.AnError)
}
