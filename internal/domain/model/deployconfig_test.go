package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeployConfig_Merge(t *testing.T) {
	t.Parallel()

	org := DeployConfig{
		Zone:          stringPtr("us-east"),
		DomainPattern: stringPtr("{repo}.example.org"),
		PRPattern:     stringPtr("{repo}-pr-{pr}.example.org"),
		SiteType:      siteTypePtr(SiteTypeVite),
	}
	repo := DeployConfig{
		Domain:   stringPtr("docs.example.org"),
		SiteType: siteTypePtr(SiteTypeZola),
		Enabled:  boolPtr(true),
	}

	org.Merge(&repo)

	// Repo overrides win where set, org values survive where unset.
	require.NotNil(t, org.Zone)
	assert.Equal(t, "us-east", *org.Zone)
	require.NotNil(t, org.DomainPattern)
	assert.Equal(t, "{repo}.example.org", *org.DomainPattern)
	require.NotNil(t, org.Domain)
	assert.Equal(t, "docs.example.org", *org.Domain)
	require.NotNil(t, org.SiteType)
	assert.Equal(t, SiteTypeZola, *org.SiteType)
	require.NotNil(t, org.Enabled)
	assert.True(t, *org.Enabled)
}

func TestDeployConfig_Merge_Nil(t *testing.T) {
	t.Parallel()

	cfg := DeployConfig{Zone: stringPtr("eu-west")}
	cfg.Merge(nil)

	require.NotNil(t, cfg.Zone)
	assert.Equal(t, "eu-west", *cfg.Zone)
}

func TestDeployConfig_IsEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		enabled  *bool
		expected bool
	}{
		{name: "absent means enabled", enabled: nil, expected: true},
		{name: "explicitly enabled", enabled: boolPtr(true), expected: true},
		{name: "explicitly disabled", enabled: boolPtr(false), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DeployConfig{Enabled: tt.enabled}
			assert.Equal(t, tt.expected, cfg.IsEnabled())
		})
	}
}

func TestDeployConfig_Deployable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      DeployConfig
		expected bool
	}{
		{
			name:     "zone set",
			cfg:      DeployConfig{Zone: stringPtr("us-east")},
			expected: true,
		},
		{
			name:     "no zone",
			cfg:      DeployConfig{Domain: stringPtr("example.org")},
			expected: false,
		},
		{
			name:     "blank zone",
			cfg:      DeployConfig{Zone: stringPtr("  ")},
			expected: false,
		},
		{
			name:     "disabled",
			cfg:      DeployConfig{Zone: stringPtr("us-east"), Enabled: boolPtr(false)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.cfg.Deployable())
		})
	}
}

func TestDeployConfig_ResolveMainDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      DeployConfig
		repo     string
		expected string
		wantErr  error
	}{
		{
			name:     "explicit domain",
			cfg:      DeployConfig{Domain: stringPtr("site.example.org")},
			repo:     "Widgets",
			expected: "site.example.org",
		},
		{
			name: "explicit domain with subdomain",
			cfg: DeployConfig{
				Domain:    stringPtr("example.org"),
				Subdomain: stringPtr("www"),
			},
			repo:     "widgets",
			expected: "www.example.org",
		},
		{
			name: "explicit domain wins over pattern",
			cfg: DeployConfig{
				Domain:        stringPtr("site.example.org"),
				DomainPattern: stringPtr("{repo}.example.org"),
			},
			repo:     "widgets",
			expected: "site.example.org",
		},
		{
			name:     "pattern substitutes lowercased repo",
			cfg:      DeployConfig{DomainPattern: stringPtr("{repo}.example.org")},
			repo:     "MyRepo",
			expected: "myrepo.example.org",
		},
		{
			name:    "nothing configured",
			cfg:     DeployConfig{Zone: stringPtr("us-east")},
			repo:    "widgets",
			wantErr: ErrUnresolvableDomain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.cfg.ResolveMainDomain(tt.repo)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDeployConfig_ResolvePRDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      DeployConfig
		repo     string
		pr       int
		expected string
		wantErr  error
	}{
		{
			name:     "pr pattern",
			cfg:      DeployConfig{PRPattern: stringPtr("{repo}-pr-{pr}.example.org")},
			repo:     "Widgets",
			pr:       42,
			expected: "widgets-pr-42.example.org",
		},
		{
			name:     "explicit domain fallback",
			cfg:      DeployConfig{Domain: stringPtr("example.org")},
			repo:     "widgets",
			pr:       7,
			expected: "pr-7-widgets.example.org",
		},
		{
			name: "pr pattern wins over explicit domain",
			cfg: DeployConfig{
				PRPattern: stringPtr("preview-{pr}.example.org"),
				Domain:    stringPtr("example.org"),
			},
			repo:     "widgets",
			pr:       7,
			expected: "preview-7.example.org",
		},
		{
			name:    "main pattern is never consulted",
			cfg:     DeployConfig{DomainPattern: stringPtr("{repo}.example.org")},
			repo:    "widgets",
			pr:      7,
			wantErr: ErrUnresolvableDomain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.cfg.ResolvePRDomain(tt.repo, tt.pr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
