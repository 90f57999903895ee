package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// truncatedTables lists every table a test may write, children first
var truncatedTables = []string{"notifications", "passports", "upload_session_part", "upload_session", "documents"}

// migrationsDir walks up from the working directory to the module root
func migrationsDir() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(wd, "go.mod")); err == nil {
			return filepath.Join(wd, "db", "migrations"), nil
		}
		if wd == filepath.Dir(wd) {
			return "", errors.New("go.mod not found in any parent directory")
		}
		wd = filepath.Dir(wd)
	}
}

// NewTestDB starts a migrated postgres container, it returns the db, a terminate func and a truncate func
func NewTestDB(t *testing.T) (*sql.DB, func(), func()) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "vize",
				"POSTGRES_PASSWORD": "vize",
				"POSTGRES_DB":       "vize_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("could not read container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("could not read container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://vize:vize@%s:%s/vize_test?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping postgres: %v", err)
	}

	dir, err := migrationsDir()
	if err != nil {
		t.Fatalf("could not find migrations: %v", err)
	}
	if err := RunMigrations(db, dir, MigrateUp, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	terminate := func() {
		db.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate postgres container: %v", err)
		}
	}

	truncate := func() {
		query := "TRUNCATE TABLE " + strings.Join(truncatedTables, ", ") + " CASCADE"
		if _, err := db.ExecContext(ctx, query); err != nil {
			t.Fatalf("failed to truncate tables: %v", err)
		}
	}
	return db, terminate, truncate
}
