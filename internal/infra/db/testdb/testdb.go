// Package testdb creates throwaway Postgres databases for integration tests.
package testdb

import (
	"context"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// NewDatabase creates an empty database next to POSTGRES_DSN_TEST and returns
// its DSN. The test is skipped when POSTGRES_DSN_TEST is unset.
func NewDatabase(t *testing.T) string {
	t.Helper()
	baseDSN := strings.TrimSpace(os.Getenv("POSTGRES_DSN_TEST"))
	if baseDSN == "" {
		t.Skip("POSTGRES_DSN_TEST not set")
	}
	adminDSN := os.Getenv("POSTGRES_ADMIN_DSN")
	if adminDSN == "" {
		adminDSN = withDatabase(baseDSN, "postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminConn, err := pgx.Connect(ctx, adminDSN)
	if err != nil {
		t.Fatalf("connect admin db: %v", err)
	}

	dbName := "tenantd_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := adminConn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		_ = adminConn.Close(ctx)
		t.Fatalf("create database: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_, _ = adminConn.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()+" WITH (FORCE)")
		_ = adminConn.Close(ctx)
	})
	return withDatabase(baseDSN, dbName)
}

func withDatabase(dsn string, dbName string) string {
	parsed, err := url.Parse(dsn)
	if err != nil {
		return dsn
	}
	parsed.Path = "/" + dbName
	return parsed.String()
}
