// Package dbtest connects repository integration tests to a migrated postgres database.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/2beens/fitnesstracker/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// NewPool connects to the database given by POSTGRES_HOST / POSTGRES_PORT / POSTGRES_DB,
// applies the migrations and empties the user-owned tables when the test ends.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	host := envOrDefault("POSTGRES_HOST", "localhost")
	t.Logf("using postgres host: %s", host)

	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     host,
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBName:     envOrDefault("POSTGRES_DB", "fitness_test"),
		DBPassword: os.Getenv("POSTGRES_PASS"),
	})
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	_, err = db.Migrate(ctx, pool)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, err := pool.Exec(context.Background(), `TRUNCATE account, progress_entry, workout_plan, workout_exercise CASCADE;`)
		if err != nil {
			t.Logf("truncate test tables: %s", err)
		}
		pool.Close()
	})

	return pool
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
