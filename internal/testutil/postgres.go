package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	_ "github.com/lib/pq"

	appdb "github.com/leoyin88/user-api/internal/db"
)

const postgresExpireSeconds = 120

// StartPostgres runs a disposable PostgreSQL container, applies the embedded
// migrations, and returns a connected pool. Tests using it are skipped unless
// INTEGRATION is set, so the suite stays runnable without Docker.
func StartPostgres(tb testing.TB) *sql.DB {
	tb.Helper()

	if os.Getenv("INTEGRATION") == "" {
		tb.Skip("set INTEGRATION=1 to run container-backed tests")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		tb.Fatalf("dockertest pool: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		tb.Fatalf("docker not available: %v", err)
	}

	resource, err := pool.RunWithOptions(
		&dockertest.RunOptions{
			Repository: "postgres",
			Tag:        "16-alpine",
			Env: []string{
				"POSTGRES_DB=userdb_test",
				"POSTGRES_USER=postgres",
				"POSTGRES_PASSWORD=postgres",
			},
		},
		func(config *docker.HostConfig) {
			config.AutoRemove = true
			config.RestartPolicy = docker.RestartPolicy{Name: "no"}
		},
	)
	if err != nil {
		tb.Fatalf("run postgres container: %v", err)
	}
	if err := resource.Expire(postgresExpireSeconds); err != nil {
		tb.Fatalf("set container expiry: %v", err)
	}

	dsn := fmt.Sprintf(
		"postgres://postgres:postgres@%s/userdb_test?sslmode=disable",
		resource.GetHostPort("5432/tcp"),
	)

	var db *sql.DB
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = sql.Open("postgres", dsn)
		if openErr != nil {
			return openErr
		}
		return db.Ping()
	})
	if err != nil {
		_ = pool.Purge(resource)
		tb.Fatalf("connect to postgres: %v", err)
	}

	if err := appdb.Run(dsn); err != nil {
		_ = pool.Purge(resource)
		tb.Fatalf("apply migrations: %v", err)
	}

	tb.Cleanup(func() {
		_ = db.Close()
		_ = pool.Purge(resource)
	})

	return db
}
