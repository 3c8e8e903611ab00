package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/halyard-dev/halyard/internal/data/pgxutil"
	"github.com/halyard-dev/halyard/internal/domain/model"
)

// AuthorizedOrgRepo manages the allow-list of GitHub orgs permitted to deploy.
type AuthorizedOrgRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAuthorizedOrgRepo creates a new AuthorizedOrgRepo.
func NewAuthorizedOrgRepo(db *sql.DB) *AuthorizedOrgRepo {
	return &AuthorizedOrgRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

const authorizedOrgColumns = `id, github_org, zones, domain_patterns, enabled, created_at, updated_at`

// AuthorizedOrgParams carries the fields of an allow-list entry.
type AuthorizedOrgParams struct {
	GitHubOrg      string
	Zones          []string
	DomainPatterns []string
	Enabled        bool
}

func (p *AuthorizedOrgParams) validate() error {
	if strings.TrimSpace(p.GitHubOrg) == "" {
		return errors.New("github_org is required")
	}
	if len(p.Zones) == 0 {
		return errors.New("at least one zone is required")
	}
	return nil
}

// Create inserts a new allow-list entry.
func (r *AuthorizedOrgRepo) Create(ctx context.Context, p AuthorizedOrgParams) (*model.AuthorizedOrg, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.AuthorizedOrg
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO authorized_orgs (github_org, zones, domain_patterns, enabled, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			RETURNING `+authorizedOrgColumns,
			strings.ToLower(p.GitHubOrg), p.Zones, p.DomainPatterns, p.Enabled, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AuthorizedOrg])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrOrgAlreadyExists
		}
		return nil, fmt.Errorf("create authorized org: %w", err)
	}
	return &out, nil
}

// GetByOrg retrieves the allow-list entry for an org.
func (r *AuthorizedOrgRepo) GetByOrg(ctx context.Context, org string) (*model.AuthorizedOrg, error) {
	var out model.AuthorizedOrg
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+authorizedOrgColumns+` FROM authorized_orgs WHERE github_org = $1`,
			strings.ToLower(org))
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AuthorizedOrg])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("get authorized org: %w", err)
	}
	return &out, nil
}

// List retrieves all allow-list entries.
func (r *AuthorizedOrgRepo) List(ctx context.Context) ([]*model.AuthorizedOrg, error) {
	var rowsOut []model.AuthorizedOrg
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+authorizedOrgColumns+` FROM authorized_orgs ORDER BY github_org`)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.AuthorizedOrg])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list authorized orgs: %w", err)
	}

	res := make([]*model.AuthorizedOrg, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Update replaces the mutable fields of an allow-list entry.
func (r *AuthorizedOrgRepo) Update(ctx context.Context, org string, p AuthorizedOrgParams) (*model.AuthorizedOrg, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var out model.AuthorizedOrg
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE authorized_orgs SET
				zones           = $2,
				domain_patterns = $3,
				enabled         = $4,
				updated_at      = $5
			WHERE github_org = $1
			RETURNING `+authorizedOrgColumns,
			strings.ToLower(org), p.Zones, p.DomainPatterns, p.Enabled, now)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AuthorizedOrg])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("update authorized org: %w", err)
	}
	return &out, nil
}

// Delete removes an allow-list entry.
func (r *AuthorizedOrgRepo) Delete(ctx context.Context, org string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM authorized_orgs WHERE github_org = $1`, strings.ToLower(org))
	if err != nil {
		return fmt.Errorf("delete authorized org: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete authorized org: %w", err)
	}
	if n == 0 {
		return ErrOrgNotFound
	}
	return nil
}
