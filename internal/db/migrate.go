package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/tern/v2/migrate"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const migrationsVersionTable = "schema_version"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded migration files. Files are named <sequence>_<name>.sql,
// numbered from 1 without gaps.
func Migrations() (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations")
}

// Migrate brings the schema up to the last embedded migration, each one in its own transaction.
// It returns the number of applied migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (applied int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "db.migrate")
	defer func() {
		span.SetAttributes(attribute.Int("applied", applied))
		tracing.EndSpanWithErrCheck(span, err)
	}()

	migrations, err := Migrations()
	if err != nil {
		return 0, fmt.Errorf("open migrations: %w", err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire migration conn: %w", err)
	}
	defer conn.Release()

	migrator, err := migrate.NewMigrator(ctx, conn.Conn(), migrationsVersionTable)
	if err != nil {
		return 0, fmt.Errorf("new migrator: %w", err)
	}
	if err := migrator.LoadMigrations(migrations); err != nil {
		return 0, fmt.Errorf("load migrations: %w", err)
	}

	startVersion, err := migrator.GetCurrentVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}

	migrator.OnStart = func(sequence int32, name, direction, _ string) {
		log.Infof("db migration applying: %04d %s [%s]", sequence, name, direction)
	}
	migrateErr := migrator.Migrate(ctx)

	// a failed migration is rolled back, the ones before it stay applied
	endVersion, err := migrator.GetCurrentVersion(ctx)
	if err == nil {
		applied = int(endVersion - startVersion)
	}
	if migrateErr != nil {
		return applied, fmt.Errorf("apply migrations: %w", migrateErr)
	}
	if err != nil {
		return applied, fmt.Errorf("get schema version: %w", err)
	}

	return applied, nil
}
