package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the externally reachable base URL of this instance
	// (e.g., "https://deploy.example.com"). Central uses it to build the
	// callback URL workers report status to.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// ReadHeaderTimeout bounds how long the server waits for request headers.
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`

	// ShutdownTimeout bounds graceful shutdown on SIGTERM.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// MaxBodyBytes caps request body size. Webhook payloads and job
	// envelopes are small; anything larger is rejected.
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.ReadHeaderTimeout < time.Second {
		h.ReadHeaderTimeout = time.Second
	}
	if h.ShutdownTimeout < 5*time.Second {
		h.ShutdownTimeout = 5 * time.Second
	}
	if h.MaxBodyBytes < 64*1024 {
		h.MaxBodyBytes = 64 * 1024
	}
}
