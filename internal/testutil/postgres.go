//go:build integration

package testutil

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Postgres is a throwaway database running in a container
type Postgres struct {
	DSN string

	container testcontainers.Container
}

// StartPostgres starts a postgres container. Call Terminate when done.
func StartPostgres(ctx context.Context) (*Postgres, error) {
	const user, password, name = "test", "test", "wordbook"

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": password,
			"POSTGRES_DB":       name,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := cont.Host(ctx)
	if err != nil {
		_ = cont.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	port, err := cont.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = cont.Terminate(ctx)
		return nil, fmt.Errorf("failed to get port: %w", err)
	}

	return &Postgres{
		DSN: fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host, port.Port(), user, password, name),
		container: cont,
	}, nil
}

// Terminate stops the container
func (p *Postgres) Terminate(ctx context.Context) error {
	return p.container.Terminate(ctx)
}

// Open connects to the container database
func (p *Postgres) Open() (*sqlx.DB, error) {
	return sqlx.Connect("postgres", p.DSN)
}

// ResetSchema drops every table and reapplies the migrations in folder
func ResetSchema(t *testing.T, db *sqlx.DB, folder string) {
	t.Helper()

	driver, err := postgresdb.WithInstance(db.DB, &postgresdb.Config{})
	require.NoError(t, err, "failed to get postgres driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+folder, "postgres", driver)
	require.NoError(t, err, "failed to create migrator")

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("failed to drop existing db objects: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("failed to run migrations: %v", err)
	}
}
