package helper

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testDatabase = "database"
	testUsername = "user"
	testPassword = "password"
)

// MustStartPostgresContainer starts a Postgres container with the pgvector
// extension preinstalled and returns a teardown function plus the mapped
// host port.
func MustStartPostgresContainer() (func(context.Context, ...testcontainers.TerminateOption) error, string, error) {
	ctx := context.Background()

	container, err := postgres.Run(
		ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUsername),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	mappedPort, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container.Terminate, "", err
	}

	return container.Terminate, mappedPort.Port(), nil
}

// SetTestDatabaseConfigEnvs sets the database configuration environment
// variables to match the container started by MustStartPostgresContainer.
func SetTestDatabaseConfigEnvs(t *testing.T, port string) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", port)
	t.Setenv("DB_DATABASE", testDatabase)
	t.Setenv("DB_USERNAME", testUsername)
	t.Setenv("DB_PASSWORD", testPassword)
	t.Setenv("DB_SCHEMA", "public")
	t.Setenv("DB_SSLMODE", "disable")
}
