package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Domain resolution failures surfaced to the dispatch path. Both are
// configuration problems, not transient faults, and are never retried.
var (
	// ErrUnresolvableDomain means neither an explicit domain nor a matching
	// pattern is configured for the requested deployment kind. PR previews
	// deliberately do not fall back to the main-branch pattern: a preview
	// must never collide with a production route.
	ErrUnresolvableDomain = errors.New("no domain or domain pattern configured")
	// ErrUnknownZone means the config references a zone with no enabled worker.
	ErrUnknownZone = errors.New("no enabled worker for zone")
)

// DeployConfig is the merged `.deploy.json` document controlling where and
// how a repository deploys. It can be defined at two levels:
//   - org defaults:   {org}/.github/.deploy.json
//   - repo overrides: {org}/{repo}/.deploy.json
//
// Pointer fields distinguish "absent" from "explicitly set" so repo documents
// override org documents field-by-field rather than wholesale.
type DeployConfig struct {
	Zone          *string   `json:"zone,omitempty"`
	DomainPattern *string   `json:"domain_pattern,omitempty"`
	PRPattern     *string   `json:"pr_pattern,omitempty"`
	Domain        *string   `json:"domain,omitempty"`
	Subdomain     *string   `json:"subdomain,omitempty"`
	SiteType      *SiteType `json:"site_type,omitempty"`
	BuildCommand  *string   `json:"build_command,omitempty"`
	OutputDir     *string   `json:"output_dir,omitempty"`
	Enabled       *bool     `json:"enabled,omitempty"`
}

// Merge applies overrides from other on top of c, field-by-field.
func (c *DeployConfig) Merge(other *DeployConfig) {
	if other == nil {
		return
	}
	if other.Zone != nil {
		c.Zone = other.Zone
	}
	if other.DomainPattern != nil {
		c.DomainPattern = other.DomainPattern
	}
	if other.PRPattern != nil {
		c.PRPattern = other.PRPattern
	}
	if other.Domain != nil {
		c.Domain = other.Domain
	}
	if other.Subdomain != nil {
		c.Subdomain = other.Subdomain
	}
	if other.SiteType != nil {
		c.SiteType = other.SiteType
	}
	if other.BuildCommand != nil {
		c.BuildCommand = other.BuildCommand
	}
	if other.OutputDir != nil {
		c.OutputDir = other.OutputDir
	}
	if other.Enabled != nil {
		c.Enabled = other.Enabled
	}
}

// IsEnabled reports whether deployments are on. Absent means enabled.
func (c *DeployConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Deployable reports whether the config carries enough to dispatch at all.
func (c *DeployConfig) Deployable() bool {
	return c.IsEnabled() && c.Zone != nil && strings.TrimSpace(*c.Zone) != ""
}

// EffectiveSiteType returns the configured site type, defaulting to auto.
func (c *DeployConfig) EffectiveSiteType() SiteType {
	if c.SiteType != nil {
		return *c.SiteType
	}
	return SiteTypeAuto
}

// ResolveMainDomain resolves the main-branch domain for a repo.
// Priority: explicit domain (with optional subdomain prefix), then
// domain_pattern with {repo} substituted.
func (c *DeployConfig) ResolveMainDomain(repo string) (string, error) {
	if c.Domain != nil && strings.TrimSpace(*c.Domain) != "" {
		if c.Subdomain != nil && strings.TrimSpace(*c.Subdomain) != "" {
			return fmt.Sprintf("%s.%s", *c.Subdomain, *c.Domain), nil
		}
		return *c.Domain, nil
	}
	if c.DomainPattern != nil && strings.TrimSpace(*c.DomainPattern) != "" {
		return strings.ReplaceAll(*c.DomainPattern, "{repo}", strings.ToLower(repo)), nil
	}
	return "", fmt.Errorf("main deployment for %q: %w", repo, ErrUnresolvableDomain)
}

// ResolvePRDomain resolves the preview domain for a PR. Only pr_pattern (with
// {repo} and {pr} substituted) or an explicit domain is consulted; there is
// no fallback to the main-branch pattern.
func (c *DeployConfig) ResolvePRDomain(repo string, prNumber int) (string, error) {
	if c.PRPattern != nil && strings.TrimSpace(*c.PRPattern) != "" {
		d := strings.ReplaceAll(*c.PRPattern, "{repo}", strings.ToLower(repo))
		return strings.ReplaceAll(d, "{pr}", strconv.Itoa(prNumber)), nil
	}
	if c.Domain != nil && strings.TrimSpace(*c.Domain) != "" {
		return fmt.Sprintf("pr-%d-%s.%s", prNumber, strings.ToLower(repo), *c.Domain), nil
	}
	return "", fmt.Errorf("pr %d deployment for %q: %w", prNumber, repo, ErrUnresolvableDomain)
}
