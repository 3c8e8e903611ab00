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

// DeploymentConfigRepo provides database operations for deployment configs.
type DeploymentConfigRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDeploymentConfigRepo creates a new DeploymentConfigRepo with real time provider.
func NewDeploymentConfigRepo(db *sql.DB) *DeploymentConfigRepo {
	return &DeploymentConfigRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewDeploymentConfigRepoWithTimeProvider creates a new DeploymentConfigRepo with a custom time provider (useful for tests).
func NewDeploymentConfigRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DeploymentConfigRepo {
	return &DeploymentConfigRepo{DB: db, timeProvider: tp}
}

const deploymentConfigColumns = `id, github_org, github_repo, installation_id, zone, domain, subdomain, site_type, enabled, created_at, updated_at`

// UpsertParams carries the resolved per-repo configuration written on each webhook.
type UpsertParams struct {
	GitHubOrg      string
	GitHubRepo     string
	InstallationID int64
	Zone           string
	Domain         *string
	Subdomain      *string
	SiteType       model.SiteType
	Enabled        bool
}

// Upsert writes the resolved config for (org, repo), inserting or replacing
// the existing row. The org/repo pair is unique.
func (r *DeploymentConfigRepo) Upsert(ctx context.Context, p UpsertParams) (*model.DeploymentConfig, error) {
	if strings.TrimSpace(p.GitHubOrg) == "" || strings.TrimSpace(p.GitHubRepo) == "" {
		return nil, errors.New("github_org and github_repo are required")
	}
	if strings.TrimSpace(p.Zone) == "" {
		return nil, errors.New("zone is required")
	}

	now := r.timeProvider.Now().UTC()
	var out model.DeploymentConfig
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO deployment_configs (
				github_org, github_repo, installation_id, zone, domain, subdomain, site_type, enabled, created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $9
			)
			ON CONFLICT (github_org, github_repo) DO UPDATE SET
				installation_id = EXCLUDED.installation_id,
				zone            = EXCLUDED.zone,
				domain          = EXCLUDED.domain,
				subdomain       = EXCLUDED.subdomain,
				site_type       = EXCLUDED.site_type,
				enabled         = EXCLUDED.enabled,
				updated_at      = EXCLUDED.updated_at
			RETURNING `+deploymentConfigColumns,
			strings.ToLower(p.GitHubOrg),
			strings.ToLower(p.GitHubRepo),
			p.InstallationID,
			p.Zone,
			p.Domain,
			p.Subdomain,
			string(p.SiteType),
			p.Enabled,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DeploymentConfig])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("upsert deployment config: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a config row by primary key.
func (r *DeploymentConfigRepo) GetByID(ctx context.Context, id string) (*model.DeploymentConfig, error) {
	var out model.DeploymentConfig
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+deploymentConfigColumns+` FROM deployment_configs WHERE id = $1`, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DeploymentConfig])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("get deployment config by id: %w", err)
	}
	return &out, nil
}

// GetByOrgRepo retrieves the config for (org, repo).
func (r *DeploymentConfigRepo) GetByOrgRepo(ctx context.Context, org, repo string) (*model.DeploymentConfig, error) {
	var out model.DeploymentConfig
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+deploymentConfigColumns+` FROM deployment_configs WHERE github_org = $1 AND github_repo = $2`,
			strings.ToLower(org), strings.ToLower(repo),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.DeploymentConfig])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("get deployment config: %w", err)
	}
	return &out, nil
}

// ListEnabled retrieves all enabled configs, optionally filtered by zone.
// Route restoration uses this to rebuild a zone's routes after worker restart.
func (r *DeploymentConfigRepo) ListEnabled(ctx context.Context, zone string) ([]*model.DeploymentConfig, error) {
	query := `SELECT ` + deploymentConfigColumns + ` FROM deployment_configs WHERE enabled ORDER BY github_org, github_repo`
	args := []any{}
	if zone != "" {
		query = `SELECT ` + deploymentConfigColumns + ` FROM deployment_configs WHERE enabled AND zone = $1 ORDER BY github_org, github_repo`
		args = append(args, zone)
	}

	var rowsOut []model.DeploymentConfig
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.DeploymentConfig])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list enabled deployment configs: %w", err)
	}

	res := make([]*model.DeploymentConfig, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
