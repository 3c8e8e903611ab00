package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/halyard-dev/halyard/internal/data/pgxutil"
	"github.com/halyard-dev/halyard/internal/domain/model"
)

// WorkerRepo tracks registered worker endpoints and their health.
type WorkerRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewWorkerRepo creates a new WorkerRepo.
func NewWorkerRepo(db *sql.DB) *WorkerRepo {
	return &WorkerRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewWorkerRepoWithTimeProvider creates a new WorkerRepo with a custom time provider (useful for tests).
func NewWorkerRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *WorkerRepo {
	return &WorkerRepo{DB: db, timeProvider: tp}
}

const workerColumns = `id, zone, endpoint, enabled, last_seen, created_at, updated_at`

// SyncEndpoints reconciles the table with the operator's zone mapping:
// listed zones are upserted and enabled, unlisted zones are disabled.
// Rows are never deleted so deployment history keeps its zone context.
func (r *WorkerRepo) SyncEndpoints(ctx context.Context, zones map[string]string) error {
	now := r.timeProvider.Now().UTC()
	return pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE worker_endpoints SET enabled = FALSE, updated_at = $1 WHERE enabled`, now); err != nil {
			return fmt.Errorf("disable worker endpoints: %w", err)
		}
		for zone, endpoint := range zones {
			if _, err := tx.Exec(ctx, `
				INSERT INTO worker_endpoints (zone, endpoint, enabled, created_at, updated_at)
				VALUES ($1, $2, TRUE, $3, $3)
				ON CONFLICT (zone) DO UPDATE SET
					endpoint   = EXCLUDED.endpoint,
					enabled    = TRUE,
					updated_at = EXCLUDED.updated_at`,
				zone, endpoint, now); err != nil {
				return fmt.Errorf("upsert worker endpoint for zone %q: %w", zone, err)
			}
		}
		return nil
	})
}

// GetByZone retrieves the enabled worker for a zone.
func (r *WorkerRepo) GetByZone(ctx context.Context, zone string) (*model.WorkerEndpoint, error) {
	var out model.WorkerEndpoint
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+workerColumns+` FROM worker_endpoints WHERE zone = $1 AND enabled`, zone)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WorkerEndpoint])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("get worker endpoint by zone: %w", err)
	}
	return &out, nil
}

// ListEnabled retrieves all enabled worker endpoints.
func (r *WorkerRepo) ListEnabled(ctx context.Context) ([]*model.WorkerEndpoint, error) {
	var rowsOut []model.WorkerEndpoint
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+workerColumns+` FROM worker_endpoints WHERE enabled ORDER BY zone`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.WorkerEndpoint])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list enabled worker endpoints: %w", err)
	}

	res := make([]*model.WorkerEndpoint, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// TouchLastSeen records a successful health probe or heartbeat for a zone.
func (r *WorkerRepo) TouchLastSeen(ctx context.Context, zone string) error {
	now := r.timeProvider.Now().UTC()
	result, err := r.DB.ExecContext(ctx,
		`UPDATE worker_endpoints SET last_seen = $2, updated_at = $2 WHERE zone = $1 AND enabled`, zone, now)
	if err != nil {
		return fmt.Errorf("touch worker last_seen: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("touch worker last_seen: %w", err)
	}
	if n == 0 {
		return ErrWorkerNotFound
	}
	return nil
}
