package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/halyard-dev/halyard/internal/data/pgxutil"
	"github.com/halyard-dev/halyard/internal/domain/model"
)

// DeploymentRecordRepo provides database operations for deployment records.
type DeploymentRecordRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDeploymentRecordRepo creates a new DeploymentRecordRepo with real time provider.
func NewDeploymentRecordRepo(db *sql.DB) *DeploymentRecordRepo {
	return &DeploymentRecordRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDeploymentRecordRepoWithTimeProvider creates a new DeploymentRecordRepo with a custom time provider (useful for tests).
func NewDeploymentRecordRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DeploymentRecordRepo {
	return &DeploymentRecordRepo{DB: db, timeProvider: tp}
}

const deploymentRecordColumns = `id, config_id, job_id, deployment_type, pr_number, branch, commit_sha, status, installation_id, github_comment_id, deployed_url, error_message, started_at, completed_at`

// CreateRecordParams carries everything needed to persist a pending record
// before its job is dispatched.
type CreateRecordParams struct {
	ConfigID       string
	JobID          uuid.UUID
	DeploymentType model.DeploymentType
	PRNumber       *int
	Branch         string
	CommitSHA      string
	InstallationID int64
}

// Create inserts a pending deployment record. The record must exist before
// dispatch so a callback arriving immediately has something to update.
func (r *DeploymentRecordRepo) Create(ctx context.Context, p CreateRecordParams) (*model.DeploymentRecord, error) {
	if p.JobID == uuid.Nil {
		return nil, errors.New("job_id is required")
	}
	if p.ConfigID == "" {
		return nil, errors.New("config_id is required")
	}

	var out model.DeploymentRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO deployment_records (
				config_id, job_id, deployment_type, pr_number, branch, commit_sha, status, installation_id, started_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9
			) RETURNING `+deploymentRecordColumns,
			p.ConfigID,
			p.JobID,
			string(p.DeploymentType),
			p.PRNumber,
			p.Branch,
			p.CommitSHA,
			string(model.JobStatusPending),
			p.InstallationID,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DeploymentRecord])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrDuplicateJobID
		}
		return nil, fmt.Errorf("create deployment record: %w", err)
	}
	return &out, nil
}

// GetByJobID retrieves a record by its job correlation key.
func (r *DeploymentRecordRepo) GetByJobID(ctx context.Context, jobID uuid.UUID) (*model.DeploymentRecord, error) {
	var out model.DeploymentRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+deploymentRecordColumns+` FROM deployment_records WHERE job_id = $1`, jobID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DeploymentRecord])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get deployment record by job_id: %w", err)
	}
	return &out, nil
}

// UpdateStatusParams carries a status change reported by a worker callback.
type UpdateStatusParams struct {
	JobID        uuid.UUID
	Status       model.JobStatus
	DeployedURL  *string
	ErrorMessage *string
}

// UpdateStatus applies a status change, enforcing the lifecycle inside a
// transaction. Re-reporting the current status is an idempotent no-op;
// any other transition out of a terminal status returns ErrIllegalTransition.
func (r *DeploymentRecordRepo) UpdateStatus(ctx context.Context, p UpdateStatusParams) (*model.DeploymentRecord, error) {
	if !p.Status.Valid() {
		return nil, fmt.Errorf("invalid status %q", p.Status)
	}

	var out model.DeploymentRecord
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT `+deploymentRecordColumns+` FROM deployment_records WHERE job_id = $1 FOR UPDATE`, p.JobID)
		if err != nil {
			return err
		}
		current, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DeploymentRecord])
		if err != nil {
			return err
		}

		if current.Status == p.Status {
			out = current
			return nil
		}
		if !current.CanTransitionTo(p.Status) {
			return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current.Status, p.Status)
		}

		now := r.timeProvider.Now().UTC()
		rows, err = tx.Query(ctx, `
			UPDATE deployment_records SET
				status        = $2,
				deployed_url  = COALESCE($3, deployed_url),
				error_message = $4,
				completed_at  = CASE WHEN $2 IN ('success', 'failed', 'cleaned') THEN $5 ELSE completed_at END
			WHERE job_id = $1
			RETURNING `+deploymentRecordColumns,
			p.JobID, string(p.Status), p.DeployedURL, p.ErrorMessage, now,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DeploymentRecord])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		if errors.Is(err, ErrIllegalTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("update deployment record status: %w", err)
	}
	return &out, nil
}

// SetCommentID records the GitHub comment attached to a PR record.
func (r *DeploymentRecordRepo) SetCommentID(ctx context.Context, jobID uuid.UUID, commentID int64) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE deployment_records SET github_comment_id = $2 WHERE job_id = $1`, jobID, commentID)
	if err != nil {
		return fmt.Errorf("set deployment record comment id: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set deployment record comment id: %w", err)
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// LatestForPR retrieves the most recent record for a PR of a config.
func (r *DeploymentRecordRepo) LatestForPR(ctx context.Context, configID string, prNumber int) (*model.DeploymentRecord, error) {
	var out model.DeploymentRecord
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+deploymentRecordColumns+` FROM deployment_records
			WHERE config_id = $1 AND deployment_type = 'pr' AND pr_number = $2
			ORDER BY started_at DESC LIMIT 1`,
			configID, prNumber)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DeploymentRecord])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("get latest record for pr: %w", err)
	}
	return &out, nil
}

// FailStale marks records stuck in pending or building longer than maxAge as
// failed. Returns the number of records failed.
func (r *DeploymentRecordRepo) FailStale(ctx context.Context, maxAgeSeconds int) (int64, error) {
	now := r.timeProvider.Now().UTC()
	result, err := r.DB.ExecContext(ctx, `
		UPDATE deployment_records SET
			status        = 'failed',
			error_message = 'deployment timed out waiting for worker',
			completed_at  = $1
		WHERE status IN ('pending', 'building')
		  AND started_at < $1 - make_interval(secs => $2)`,
		now, maxAgeSeconds)
	if err != nil {
		return 0, fmt.Errorf("fail stale deployment records: %w", err)
	}
	return result.RowsAffected()
}
