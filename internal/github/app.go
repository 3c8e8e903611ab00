// Package github wraps the GitHub App integration: App JWT authentication,
// per-installation token minting, deploy config retrieval, PR comments, and
// webhook payload parsing.
package github

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	gh "github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"
)

// App authenticates as a GitHub App and mints installation tokens.
// Installation tokens are cached until shortly before expiry; GitHub issues
// them with a one hour lifetime.
type App struct {
	appID   int64
	key     *rsa.PrivateKey
	client  *gh.Client
	baseURL string

	mu     sync.Mutex
	tokens map[int64]cachedToken
}

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// AppOptions configures a GitHub App client.
type AppOptions struct {
	AppID      int64
	PrivateKey []byte
	// BaseURL points at a GitHub Enterprise API root. Empty means github.com.
	BaseURL string
}

// NewApp creates an App from its ID and private key PEM.
func NewApp(opts AppOptions) (*App, error) {
	if opts.AppID == 0 {
		return nil, errors.New("github app id is required")
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(opts.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parse github app private key: %w", err)
	}

	client := gh.NewClient(nil)
	if opts.BaseURL != "" {
		client, err = client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("configure enterprise base url: %w", err)
		}
	}

	return &App{
		appID:   opts.AppID,
		key:     key,
		client:  client,
		baseURL: opts.BaseURL,
		tokens:  make(map[int64]cachedToken),
	}, nil
}

// appJWT builds the short-lived RS256 JWT GitHub requires for App-level
// endpoints. Issued-at is backdated to absorb clock skew.
func (a *App) appJWT() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(a.appID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-60 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.key)
	if err != nil {
		return "", fmt.Errorf("sign app jwt: %w", err)
	}
	return signed, nil
}

// InstallationToken returns a token scoped to the installation, minting a
// fresh one when the cached token is within five minutes of expiry.
func (a *App) InstallationToken(ctx context.Context, installationID int64) (string, error) {
	a.mu.Lock()
	cached, ok := a.tokens[installationID]
	a.mu.Unlock()
	if ok && time.Until(cached.expiresAt) > 5*time.Minute {
		return cached.token, nil
	}

	appJWT, err := a.appJWT()
	if err != nil {
		return "", err
	}

	client := a.client.WithAuthToken(appJWT)
	token, _, err := client.Apps.CreateInstallationToken(ctx, installationID, &gh.InstallationTokenOptions{})
	if err != nil {
		return "", fmt.Errorf("create installation token for %d: %w", installationID, err)
	}

	a.mu.Lock()
	a.tokens[installationID] = cachedToken{
		token:     token.GetToken(),
		expiresAt: token.GetExpiresAt().Time,
	}
	a.mu.Unlock()

	return token.GetToken(), nil
}

// installationClient returns a REST client authenticated as the installation.
func (a *App) installationClient(ctx context.Context, installationID int64) (*gh.Client, error) {
	token, err := a.InstallationToken(ctx, installationID)
	if err != nil {
		return nil, err
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := gh.NewClient(oauth2.NewClient(ctx, src))
	if a.baseURL != "" {
		client, err = client.WithEnterpriseURLs(a.baseURL, a.baseURL)
		if err != nil {
			return nil, fmt.Errorf("configure enterprise base url: %w", err)
		}
	}
	return client, nil
}
