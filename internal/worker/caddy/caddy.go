// Package caddy publishes file-server routes through the Caddy admin API and
// persists per-site metadata so routes survive a Caddy or worker restart.
package caddy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/halyard-dev/halyard/internal/core"
)

// MetadataFile is written into each deployed site directory so routes can be
// rebuilt from disk after a restart.
const MetadataFile = ".halyard.json"

// routesPath is the admin API path for the route list of the default server.
const routesPath = "/config/apps/http/servers/srv0/routes"

// SiteMetadata is the on-disk record for one deployed site.
type SiteMetadata struct {
	SiteID string `json:"site_id"`
	Domain string `json:"domain"`
}

// route mirrors the Caddy JSON config for a single host-matched route.
type route struct {
	ID       string         `json:"@id"`
	Match    []routeMatch   `json:"match"`
	Handle   []routeHandler `json:"handle"`
	Terminal bool           `json:"terminal"`
}

type routeMatch struct {
	Host []string `json:"host"`
}

type routeHandler struct {
	Handler    string   `json:"handler"`
	Root       string   `json:"root"`
	IndexNames []string `json:"index_names"`
}

// Manager implements core.RouteManager against a Caddy admin endpoint.
type Manager struct {
	adminURL string
	sitesDir string
	client   *http.Client
	logger   *slog.Logger
}

// Options configures a Manager.
type Options struct {
	// AdminURL is the Caddy admin API base, e.g. http://localhost:2019.
	AdminURL string
	// SitesDir is the directory holding one subdirectory per deployed site.
	SitesDir string
	Client   *http.Client
	Logger   *slog.Logger
}

// NewManager creates a route manager for the given Caddy admin endpoint.
func NewManager(opts Options) *Manager {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		adminURL: opts.AdminURL,
		sitesDir: opts.SitesDir,
		client:   client,
		logger:   logger.With("component", "caddy"),
	}
}

// PublishRoute registers a file-server route for the site and writes the
// site metadata file. An existing route with the same ID is replaced.
func (m *Manager) PublishRoute(ctx context.Context, site core.RouteSite) error {
	// Replace rather than duplicate; a missing old route is not an error.
	if err := m.RemoveRoute(ctx, site.SiteID); err != nil {
		return err
	}

	r := route{
		ID:       site.SiteID,
		Match:    []routeMatch{{Host: []string{site.Domain}}},
		Handle:   []routeHandler{{Handler: "file_server", Root: site.Root, IndexNames: []string{"index.html"}}},
		Terminal: true,
	}
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal route: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.adminURL+routesPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build route request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("add route: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("caddy admin API returned %d: %s", resp.StatusCode, readSnippet(resp.Body))
	}

	if err := WriteMetadata(site.Root, SiteMetadata{SiteID: site.SiteID, Domain: site.Domain}); err != nil {
		return err
	}

	m.logger.Info("published route", "site_id", site.SiteID, "domain", site.Domain, "root", site.Root)
	return nil
}

// RemoveRoute deletes the route with the given ID. A route that does not
// exist is not an error.
func (m *Manager) RemoveRoute(ctx context.Context, siteID string) error {
	url := fmt.Sprintf("%s%s/%s", m.adminURL, routesPath, siteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build route delete: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("remove route: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if (resp.StatusCode >= 200 && resp.StatusCode < 300) || resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return fmt.Errorf("caddy admin API returned %d: %s", resp.StatusCode, readSnippet(resp.Body))
}

// ListRoutes scans the sites directory and returns every site that carries a
// metadata file. Unreadable entries are skipped with a warning.
func (m *Manager) ListRoutes(ctx context.Context) ([]core.RouteSite, error) {
	entries, err := os.ReadDir(m.sitesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sites dir: %w", err)
	}

	var sites []core.RouteSite
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.sitesDir, entry.Name())
		meta, err := ReadMetadata(dir)
		if err != nil {
			m.logger.Warn("skipping site with unreadable metadata", "dir", dir, "error", err)
			continue
		}
		if meta == nil {
			continue
		}
		sites = append(sites, core.RouteSite{SiteID: meta.SiteID, Domain: meta.Domain, Root: dir})
	}
	return sites, nil
}

// RestoreRoutes waits for the admin API and republishes a route for every
// site found on disk. Individual failures are logged, not fatal; the count of
// restored routes is returned.
func (m *Manager) RestoreRoutes(ctx context.Context) (int, error) {
	if err := m.waitReady(ctx); err != nil {
		return 0, err
	}

	sites, err := m.ListRoutes(ctx)
	if err != nil {
		return 0, err
	}

	restored := 0
	for _, site := range sites {
		if err := m.PublishRoute(ctx, site); err != nil {
			m.logger.Error("failed to restore route", "site_id", site.SiteID, "error", err)
			continue
		}
		restored++
	}
	m.logger.Info("route restoration complete", "restored", restored, "found", len(sites))
	return restored, nil
}

// waitReady polls the admin API config root until it answers or the context
// expires.
func (m *Manager) waitReady(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.adminURL+"/config/", nil)
		if err != nil {
			return fmt.Errorf("build readiness request: %w", err)
		}
		resp, err := m.client.Do(req)
		if err == nil {
			resp.Body.Close() //nolint:errcheck
			if resp.StatusCode < 500 {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("caddy admin API not reachable: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

// WriteMetadata writes the site metadata file into the site directory.
func WriteMetadata(siteDir string, meta SiteMetadata) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal site metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(siteDir, MetadataFile), data, 0o644); err != nil {
		return fmt.Errorf("write site metadata: %w", err)
	}
	return nil
}

// ReadMetadata reads the site metadata file from a site directory. A missing
// file returns nil without error.
func ReadMetadata(siteDir string) (*SiteMetadata, error) {
	data, err := os.ReadFile(filepath.Join(siteDir, MetadataFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read site metadata: %w", err)
	}
	var meta SiteMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse site metadata: %w", err)
	}
	return &meta, nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}
