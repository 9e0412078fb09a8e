// Package config loads process configuration from the environment so main
// stays lean.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config captures everything the server needs at startup. Fields without a
// default are optional; leaving PostgresURL empty runs the in-memory stores,
// which is how local development and the unit test suites operate.
type Config struct {
	Addr          string        `env:"REGISTRAR_ADDR" envDefault:":8080"`
	JWTSigningKey string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string        `env:"JWT_ISSUER" envDefault:"registrar"`
	JWTAudience   string        `env:"JWT_AUDIENCE" envDefault:"registrar-admin"`
	PostgresURL   string        `env:"POSTGRES_URL"`
	RedisURL      string        `env:"REDIS_URL"`
	KafkaBrokers  []string      `env:"KAFKA_BROKERS"`
	AuditTopic    string        `env:"AUDIT_TOPIC" envDefault:"registrar.audit"`
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE" envDefault:"10s"`
}

// Load reads the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
