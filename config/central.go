package config

import (
	"fmt"
	"strings"
	"time"
)

// CentralConfig contains orchestrator configuration.
type CentralConfig struct {
	// Workers maps zone names to worker base URLs, e.g.
	// CENTRAL_WORKERS="production=https://deployer.example.com,staging=https://deployer-staging.example.com"
	Workers map[string]string `env:"CENTRAL_WORKERS" envKeyValSeparator:"="`

	// DispatchTimeout bounds a single dispatch HTTP attempt to a worker.
	DispatchTimeout time.Duration `env:"CENTRAL_DISPATCH_TIMEOUT" envDefault:"30s"`

	// DispatchRetries is the number of attempts before a job is failed.
	DispatchRetries int `env:"CENTRAL_DISPATCH_RETRIES" envDefault:"3"`

	// MonitorInterval is how often worker /health endpoints are polled.
	MonitorInterval time.Duration `env:"CENTRAL_MONITOR_INTERVAL" envDefault:"60s"`

	// MonitorTimeout bounds a single health probe.
	MonitorTimeout time.Duration `env:"CENTRAL_MONITOR_TIMEOUT" envDefault:"10s"`

	// StaleAge is how long a record may sit in pending or building
	// before the monitor fails it.
	StaleAge time.Duration `env:"CENTRAL_STALE_AGE" envDefault:"1h"`

	// AdminToken authenticates the authorized-org admin endpoints.
	// Empty disables the admin API.
	AdminToken string `env:"CENTRAL_ADMIN_TOKEN" envDefault:""`
}

// Sanitize applies guardrails to central configuration values.
func (c *CentralConfig) Sanitize() {
	if c.DispatchTimeout < 5*time.Second {
		c.DispatchTimeout = 5 * time.Second
	}
	if c.DispatchRetries < 1 {
		c.DispatchRetries = 1
	}
	if c.MonitorInterval < 10*time.Second {
		c.MonitorInterval = 10 * time.Second
	}
	if c.MonitorTimeout < time.Second {
		c.MonitorTimeout = time.Second
	}
	if c.StaleAge < time.Minute {
		c.StaleAge = time.Minute
	}
}

// ValidateWorkers checks the zone → endpoint mapping.
func (c *CentralConfig) ValidateWorkers() error {
	if len(c.Workers) == 0 {
		return fmt.Errorf("CENTRAL_WORKERS must map at least one zone to a worker endpoint")
	}
	for zone, endpoint := range c.Workers {
		if strings.TrimSpace(zone) == "" {
			return fmt.Errorf("empty zone name in CENTRAL_WORKERS")
		}
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			return fmt.Errorf("worker endpoint for zone %q must be a URL, got %q", zone, endpoint)
		}
	}
	return nil
}
