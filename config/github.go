package config

import (
	"fmt"
	"os"
)

// GitHubConfig contains GitHub App credentials for Central.
// The App authenticates as itself with a short-lived JWT, then exchanges it
// for per-installation tokens scoped to the repositories being deployed.
type GitHubConfig struct {
	// AppID is the numeric GitHub App ID.
	AppID int64 `env:"APP_ID"`

	// PrivateKeyPath points at the App's RSA private key PEM file.
	PrivateKeyPath string `env:"PRIVATE_KEY_PATH"`

	// WebhookSecret verifies X-Hub-Signature-256 on incoming webhooks.
	WebhookSecret string `env:"WEBHOOK_SECRET"`

	// BaseURL overrides the GitHub API endpoint (GitHub Enterprise).
	// Empty means api.github.com.
	BaseURL string `env:"BASE_URL" envDefault:""`
}

// LoadPrivateKey reads the App private key PEM from disk.
func (g *GitHubConfig) LoadPrivateKey() ([]byte, error) {
	key, err := os.ReadFile(g.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read github private key from %q: %w", g.PrivateKeyPath, err)
	}
	return key, nil
}

// Validate checks that the credentials required by Central are present.
func (g *GitHubConfig) Validate() error {
	if g.AppID == 0 {
		return fmt.Errorf("GITHUB_APP_ID is required")
	}
	if g.PrivateKeyPath == "" {
		return fmt.Errorf("GITHUB_PRIVATE_KEY_PATH is required")
	}
	if g.WebhookSecret == "" {
		return fmt.Errorf("GITHUB_WEBHOOK_SECRET is required")
	}
	return nil
}
