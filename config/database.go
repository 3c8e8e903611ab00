package config

import "time"

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"halyard"`
	Password string `env:"PASSWORD" envDefault:"halyard"`
	Name     string `env:"NAME"     envDefault:"halyard"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration. Redis backs webhook delivery
// deduplication; Central acknowledges redelivered webhooks without
// reprocessing them.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`

	// DedupTTL is how long a webhook delivery GUID is remembered.
	DedupTTL time.Duration `env:"DEDUP_TTL" envDefault:"24h"`
}
