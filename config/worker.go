package config

import (
	"fmt"
	"strings"
	"time"
)

// WorkerConfig contains build/deploy configuration for one zone's worker.
type WorkerConfig struct {
	// Zone is the name this worker serves; it must match a key in Central's
	// zone mapping.
	Zone string `env:"WORKER_ZONE" envDefault:"production"`

	// CentralURL is the base URL of the Central orchestrator.
	CentralURL string `env:"CENTRAL_URL"`

	// SitesDir is where built artifacts are placed, one directory per site ID.
	SitesDir string `env:"SITES_DIR" envDefault:"/var/www/sites"`

	// WorkDir holds clones and in-progress builds before atomic placement.
	WorkDir string `env:"WORK_DIR" envDefault:"/var/lib/halyard/work"`

	// CaddyAdminAPI is the Caddy admin endpoint used to publish routes.
	CaddyAdminAPI string `env:"CADDY_ADMIN_API" envDefault:"http://localhost:2019"`

	// Concurrency is the number of simultaneous builds.
	Concurrency int `env:"WORKER_CONCURRENCY" envDefault:"2"`

	// QueueDepth bounds accepted-but-not-started jobs. Beyond this the
	// worker answers 503 and Central retries or fails the job.
	QueueDepth int `env:"WORKER_QUEUE_DEPTH" envDefault:"10"`

	// BuildTimeout bounds one build from clone to artifact placement.
	BuildTimeout time.Duration `env:"WORKER_BUILD_TIMEOUT" envDefault:"15m"`

	// CloneTimeout bounds the git clone step.
	CloneTimeout time.Duration `env:"WORKER_CLONE_TIMEOUT" envDefault:"5m"`

	// CallbackRetries is the number of status callback attempts.
	CallbackRetries int `env:"WORKER_CALLBACK_RETRIES" envDefault:"5"`
}

// Sanitize applies guardrails to worker configuration values.
func (w *WorkerConfig) Sanitize() {
	if w.Concurrency < 1 {
		w.Concurrency = 1
	}
	if w.QueueDepth < 1 {
		w.QueueDepth = 1
	}
	if w.BuildTimeout < time.Minute {
		w.BuildTimeout = time.Minute
	}
	if w.CloneTimeout < 30*time.Second {
		w.CloneTimeout = 30 * time.Second
	}
	if w.CallbackRetries < 1 {
		w.CallbackRetries = 1
	}
}

// Validate checks the fields a worker cannot run without.
func (w *WorkerConfig) Validate() error {
	if strings.TrimSpace(w.CentralURL) == "" {
		return fmt.Errorf("CENTRAL_URL is required")
	}
	if strings.TrimSpace(w.Zone) == "" {
		return fmt.Errorf("WORKER_ZONE is required")
	}
	return nil
}

// IsolationConfig controls the container sandbox builds run in.
type IsolationConfig struct {
	// DockerHost overrides the container engine socket. Empty uses the
	// engine client's defaults (DOCKER_HOST or the standard socket path).
	DockerHost string `env:"DOCKER_HOST_OVERRIDE" envDefault:""`

	// BuildImage is the image builds run in; it must carry the site
	// toolchains (node, zola, nix).
	BuildImage string `env:"BUILD_IMAGE" envDefault:"nixos/nix:latest"`

	// NetworkName is the restricted bridge network builds attach to.
	NetworkName string `env:"ISOLATION_NETWORK" envDefault:"halyard-build"`

	// MemoryLimitBytes caps build container memory.
	MemoryLimitBytes int64 `env:"CONTAINER_MEMORY_LIMIT" envDefault:"4294967296"` // 4 GiB

	// CPUQuota is the CFS quota per 100ms period; 200000 is two CPUs.
	CPUQuota int64 `env:"CONTAINER_CPU_QUOTA" envDefault:"200000"`

	// PidsLimit caps processes inside a build container.
	PidsLimit int64 `env:"CONTAINER_PIDS_LIMIT" envDefault:"1000"`

	// AllowDegraded permits builds to proceed when full isolation cannot
	// be established. Defaults to fail-closed; when enabled, every build
	// carries a warning describing what is missing.
	AllowDegraded bool `env:"ISOLATION_ALLOW_DEGRADED" envDefault:"false"`
}

// Sanitize applies guardrails to isolation configuration values.
func (i *IsolationConfig) Sanitize() {
	if i.MemoryLimitBytes < 256*1024*1024 {
		i.MemoryLimitBytes = 256 * 1024 * 1024
	}
	if i.CPUQuota < 10000 {
		i.CPUQuota = 10000
	}
	if i.PidsLimit < 64 {
		i.PidsLimit = 64
	}
}
