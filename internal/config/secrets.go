package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Secrets struct {
	SentryDSN        string `env:"SENTRY_DSN"`
	RedisPassword    string `env:"FITNESS_REDIS_PASS"`
	PostgresPassword string `env:"FITNESS_POSTGRES_PASS"`
	JWTSecret        string `env:"FITNESS_JWT_SECRET, required"`
	HoneycombEnabled bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey  string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName  string `env:"OTEL_SERVICE_NAME, default=fitness-tracker"`
}

// LoadSecrets reads the optional dotenv files into the process environment
// (without overriding variables that are already set) and decodes the secrets.
func LoadSecrets(ctx context.Context, dotenvFiles ...string) (*Secrets, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load dotenv file %s: %w", f, err)
		}
	}

	var secrets Secrets
	if err := envconfig.Process(ctx, &secrets); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}
	return &secrets, nil
}
