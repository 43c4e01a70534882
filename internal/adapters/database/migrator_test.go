package database

import (
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	entries, err := embeddedMigrations.ReadDir("migrations")
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	// Every up migration has a matching down migration
	require.ElementsMatch(t, []string{
		"000001_create_progress_tables.up.sql",
		"000001_create_progress_tables.down.sql",
		"000002_create_support_tickets.up.sql",
		"000002_create_support_tickets.down.sql",
		"000003_create_user_logins.up.sql",
		"000003_create_user_logins.down.sql",
	}, names)
}

func TestMigrator(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping migrator tests in short mode.")
	}
	t.Parallel()

	t.Run("migrate up twice and down", func(t *testing.T) {
		t.Parallel()

		ctx := t.Context()
		schemaName := "migrate_up_down"

		db, err := NewPostgresDatabase(LOCAL_CONNECTION_STRING)
		require.NoError(t, err)

		db.MustExec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pq.QuoteIdentifier(schemaName)))

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
		migrator := NewDatabaseMigrator(db, logger)

		require.NoError(t, migrator.Migrate(ctx, schemaName), "error migrating up")
		require.NoError(t, migrator.Migrate(ctx, schemaName), "migrating up again should be a no-op")

		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()
		_, err = conn.ExecContext(ctx, fmt.Sprintf("SET search_path TO %s", pq.QuoteIdentifier(schemaName)))
		require.NoError(t, err)

		migrationSource, err := iofs.New(embeddedMigrations, "migrations")
		require.NoError(t, err)
		defer migrationSource.Close()

		dbDriver, err := postgres.WithConnection(ctx, conn, &postgres.Config{
			DatabaseName: DB_NAME,
			SchemaName:   schemaName,
		})
		require.NoError(t, err)

		migratorInstance, err := migrate.NewWithInstance("iofs", migrationSource, "postgres", dbDriver)
		require.NoError(t, err)
		defer migratorInstance.Close()

		err = migratorInstance.Down()
		require.NoError(t, err, "error migrating down") // Should not even be ErrNoChange
	})
}
