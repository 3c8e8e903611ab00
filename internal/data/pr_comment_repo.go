package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/halyard-dev/halyard/internal/data/pgxutil"
	"github.com/halyard-dev/halyard/internal/domain/model"
)

// PRCommentRepo tracks the single status comment kept per pull request.
type PRCommentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPRCommentRepo creates a new PRCommentRepo.
func NewPRCommentRepo(db *sql.DB) *PRCommentRepo {
	return &PRCommentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

const prCommentColumns = `id, github_org, github_repo, pr_number, comment_id, created_at, updated_at`

// Get retrieves the tracked comment for a PR.
func (r *PRCommentRepo) Get(ctx context.Context, org, repo string, prNumber int) (*model.PRComment, error) {
	var out model.PRComment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+prCommentColumns+` FROM pr_comments WHERE github_org = $1 AND github_repo = $2 AND pr_number = $3`,
			strings.ToLower(org), strings.ToLower(repo), prNumber)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PRComment])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("get pr comment: %w", err)
	}
	return &out, nil
}

// Upsert records the GitHub comment ID for a PR, replacing any previous one.
func (r *PRCommentRepo) Upsert(ctx context.Context, org, repo string, prNumber int, commentID int64) (*model.PRComment, error) {
	now := r.timeProvider.Now().UTC()
	var out model.PRComment
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO pr_comments (github_org, github_repo, pr_number, comment_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (github_org, github_repo, pr_number) DO UPDATE SET
				comment_id = EXCLUDED.comment_id,
				updated_at = EXCLUDED.updated_at
			RETURNING `+prCommentColumns,
			strings.ToLower(org), strings.ToLower(repo), prNumber, commentID, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.PRComment])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("upsert pr comment: %w", err)
	}
	return &out, nil
}

// Delete removes the tracked comment for a PR after cleanup.
func (r *PRCommentRepo) Delete(ctx context.Context, org, repo string, prNumber int) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM pr_comments WHERE github_org = $1 AND github_repo = $2 AND pr_number = $3`,
		strings.ToLower(org), strings.ToLower(repo), prNumber)
	if err != nil {
		return fmt.Errorf("delete pr comment: %w", err)
	}
	return nil
}
