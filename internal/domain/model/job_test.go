package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBuildJob() BuildJob {
	return BuildJob{
		JobID:       uuid.New(),
		RepoURL:     "https://github.com/acme/widgets.git",
		GitToken:    "ghs_test",
		Branch:      "main",
		CommitSHA:   "0123456789abcdef0123456789abcdef01234567",
		Domain:      "widgets.example.org",
		SiteType:    SiteTypeVite,
		CallbackURL: "https://central.example.org/api/status",
		RepoName:    "widgets",
		OrgName:     "acme",
	}
}

func TestBuildJob_Validate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		j := validBuildJob()
		require.NoError(t, j.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*BuildJob)
	}{
		{name: "missing job id", mutate: func(j *BuildJob) { j.JobID = uuid.Nil }},
		{name: "missing repo url", mutate: func(j *BuildJob) { j.RepoURL = "" }},
		{name: "missing commit sha", mutate: func(j *BuildJob) { j.CommitSHA = "  " }},
		{name: "missing domain", mutate: func(j *BuildJob) { j.Domain = "" }},
		{name: "missing callback url", mutate: func(j *BuildJob) { j.CallbackURL = "" }},
		{name: "missing org name", mutate: func(j *BuildJob) { j.OrgName = "" }},
		{name: "missing repo name", mutate: func(j *BuildJob) { j.RepoName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			j := validBuildJob()
			tt.mutate(&j)
			require.Error(t, j.Validate())
		})
	}
}

func TestBuildJob_IsPR(t *testing.T) {
	t.Parallel()

	j := validBuildJob()
	assert.False(t, j.IsPR())

	j.PRNumber = intPtr(42)
	assert.True(t, j.IsPR())
}

func TestCleanupJob_Validate(t *testing.T) {
	t.Parallel()

	valid := CleanupJob{
		JobID:       uuid.New(),
		SiteID:      "acme-widgets-pr-42",
		CallbackURL: "https://central.example.org/api/status",
	}
	require.NoError(t, valid.Validate())

	missingSite := valid
	missingSite.SiteID = ""
	require.Error(t, missingSite.Validate())

	missingCallback := valid
	missingCallback.CallbackURL = ""
	require.Error(t, missingCallback.Validate())

	missingID := valid
	missingID.JobID = uuid.Nil
	require.Error(t, missingID.Validate())
}

func TestStatusUpdate_Validate(t *testing.T) {
	t.Parallel()

	valid := StatusUpdate{JobID: uuid.New(), Status: JobStatusSuccess}
	require.NoError(t, valid.Validate())

	badStatus := StatusUpdate{JobID: uuid.New(), Status: JobStatus("done")}
	require.Error(t, badStatus.Validate())

	missingID := StatusUpdate{Status: JobStatusFailed}
	require.Error(t, missingID.Validate())
}

func TestJobStatus_Terminal(t *testing.T) {
	t.Parallel()

	assert.False(t, JobStatusPending.Terminal())
	assert.False(t, JobStatusBuilding.Terminal())
	assert.False(t, JobStatusSuccess.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
	assert.True(t, JobStatusCleaned.Terminal())
}

func TestParseJobStatus(t *testing.T) {
	t.Parallel()

	got, ok := ParseJobStatus(" Building ")
	require.True(t, ok)
	assert.Equal(t, JobStatusBuilding, got)

	_, ok = ParseJobStatus("queued")
	assert.False(t, ok)
}

func TestSiteID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "acme-widgets-pr-42", SiteID("Acme", "Widgets", intPtr(42)))
	assert.Equal(t, "acme-widgets-main", SiteID("acme", "widgets", nil))
}

func TestDeployedURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://widgets.example.org/", DeployedURL("widgets.example.org"))
}
