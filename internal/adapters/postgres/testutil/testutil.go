// Package testutil provisions throwaway Postgres databases for adapter tests.
package testutil

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres"
)

// OpenMigratedPool creates a fresh database on the server named by DATABASE_URL,
// applies all migrations and drops the database when the test finishes.
// The test is skipped when DATABASE_URL is unset.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping postgres test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	adminCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse DATABASE_URL: %v", err)
	}
	adminCfg.MaxConns = 1
	admin, err := postgres.NewPoolWithConfig(ctx, adminCfg)
	if err != nil {
		t.Fatalf("connect admin pool: %v", err)
	}

	dbName := "newsletter_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{dbName}.Sanitize()); err != nil {
		admin.Close()
		t.Fatalf("create database %s: %v", dbName, err)
	}

	cfg := adminCfg.Copy()
	cfg.MaxConns = 4
	cfg.ConnConfig.Database = dbName
	pool, err := postgres.NewPoolWithConfig(ctx, cfg)
	if err != nil {
		admin.Close()
		t.Fatalf("connect test pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer dropCancel()
		if _, err := admin.Exec(dropCtx, "DROP DATABASE IF EXISTS "+pgx.Identifier{dbName}.Sanitize()); err != nil {
			t.Logf("drop database %s: %v", dbName, err)
		}
		admin.Close()
	})

	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}
