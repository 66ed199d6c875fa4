// Package config loads process configuration from the environment so main
// stays lean. Defaults target local development; production overrides every
// endpoint.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration.
type Config struct {
	Server   Server
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Risk     Risk
	Rate     Rate
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"RONDA_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"RONDA_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Postgres configures the registry/audit/outbox database. Empty URL means
// the process runs on in-memory stores (development, tests).
type Postgres struct {
	URL string `env:"RONDA_POSTGRES_URL"`
}

// Redis configures the identity snapshot cache. Empty URL disables caching.
type Redis struct {
	URL          string        `env:"RONDA_REDIS_URL"`
	DialTimeout  time.Duration `env:"RONDA_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"RONDA_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"RONDA_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	SnapshotTTL  time.Duration `env:"RONDA_REDIS_SNAPSHOT_TTL" envDefault:"5m"`
}

// Kafka configures the outbox relay. Empty brokers disable relaying; outbox
// rows then accumulate until a relay is attached.
type Kafka struct {
	Brokers []string      `env:"RONDA_KAFKA_BROKERS" envSeparator:","`
	Topic   string        `env:"RONDA_KAFKA_TOPIC" envDefault:"ronda.lifecycle"`
	Poll    time.Duration `env:"RONDA_OUTBOX_POLL" envDefault:"2s"`
}

// Risk carries the tunable thresholds of the risk evaluator.
type Risk struct {
	HighContribution    int64         `env:"RONDA_RISK_HIGH_CONTRIBUTION" envDefault:"500000"`
	LargeGroupSize      int           `env:"RONDA_RISK_LARGE_GROUP" envDefault:"20"`
	NewCoordinatorAge   time.Duration `env:"RONDA_RISK_NEW_COORDINATOR_AGE" envDefault:"720h"`
	NewMemberAge        time.Duration `env:"RONDA_RISK_NEW_MEMBER_AGE" envDefault:"168h"`
	MaxFailedPayments   int           `env:"RONDA_RISK_MAX_FAILED_PAYMENTS" envDefault:"2"`
	MaxPublicWarnings   int           `env:"RONDA_RISK_MAX_PUBLIC_WARNINGS" envDefault:"5"`
	MaxGroupsLeft       int           `env:"RONDA_RISK_MAX_GROUPS_LEFT" envDefault:"3"`
	SnapshotTimeout     time.Duration `env:"RONDA_RISK_SNAPSHOT_TIMEOUT" envDefault:"3s"`
}

// Rate throttles mutating requests per actor. A zero limit disables
// throttling.
type Rate struct {
	Limit  int           `env:"RONDA_RATE_LIMIT" envDefault:"60"`
	Window time.Duration `env:"RONDA_RATE_WINDOW" envDefault:"1m"`
}

// Load builds a Config from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
