package sqldb

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
)

//go:embed schema/*.sql
var schemaFiles embed.FS

// Options tunes the database/sql pool.
type Options struct {
	MaxOpenConns int
}

// Open opens and pings a database for the dialect.
//
// MySQL DSNs must include parseTime=true so timestamps scan into time.Time.
func Open(ctx context.Context, d Dialect, dsn string, opts Options) (*sql.DB, error) {
	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d, err)
	}
	return db, nil
}

// EnsureSchema creates the tables used by the sqldb adapters if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	body, err := schemaFiles.ReadFile("schema/" + string(d) + ".sql")
	if err != nil {
		return fmt.Errorf("no schema for %s: %w", d, err)
	}
	// The mysql driver rejects multi-statement Exec unless the DSN opts in.
	for _, stmt := range strings.Split(string(body), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply %s schema: %w", d, err)
		}
	}
	return nil
}
