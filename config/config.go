package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - central.go: Central orchestrator configuration
//   - worker.go: Worker build/deploy configuration
//   - github.go: GitHub App credentials
//   - database.go: Database and Redis configuration
//   - http.go: HTTP server configuration
type AppConfig struct {
	// IsDev controls development mode behavior (log level, relaxed checks).
	// Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Service mode configuration. Valid values: central, worker.
	Services string `env:"SERVICES" envDefault:"central"`

	// SharedSecret is the HMAC secret shared between Central and Workers.
	// Required for both modes.
	SharedSecret string `env:"WORKER_SHARED_SECRET"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Database configuration (Central only)
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// GitHub App configuration (Central only)
	GitHub GitHubConfig `envPrefix:"GITHUB_"`

	// Central orchestrator configuration
	Central CentralConfig

	// Worker build/deploy configuration
	Worker WorkerConfig

	// Isolation configuration for build containers (Worker only)
	Isolation IsolationConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Central.Sanitize()
	c.Worker.Sanitize()
	c.Isolation.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsCentralEnabled returns true if the Central orchestrator service is enabled.
func (c *AppConfig) IsCentralEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeCentral]
}

// IsWorkerEnabled returns true if the Worker build service is enabled.
func (c *AppConfig) IsWorkerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeWorker]
}
