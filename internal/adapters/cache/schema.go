package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"ongkir-service/internal/platform/db"
	"time"
)

// InitSchema creates the lookup cache table for the given driver.
func InitSchema(ctx context.Context, conn *sql.DB, driver string) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	payloadType := "BLOB"
	if driver == db.DriverPostgres {
		payloadType = "BYTEA"
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLookupCacheQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS lookup_cache (
        kind TEXT NOT NULL,
        cache_key TEXT NOT NULL,
        payload %s NOT NULL,
        expires_at BIGINT NOT NULL,
        PRIMARY KEY (kind, cache_key)
    );
	`, payloadType)

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_lookup_cache_expires_at
    ON lookup_cache(expires_at);
	`

	statements := []string{
		createLookupCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// PurgeExpired deletes entries whose TTL has passed and returns how many were removed.
func PurgeExpired(ctx context.Context, conn *sql.DB, driver string, now time.Time) (int64, error) {
	if conn == nil {
		return 0, errors.New("purge cache: DB is nil")
	}

	q := `DELETE FROM lookup_cache WHERE expires_at <= ?;`
	if driver == db.DriverPostgres {
		q = `DELETE FROM lookup_cache WHERE expires_at <= $1;`
	}

	res, err := conn.ExecContext(ctx, q, now.Unix())
	if err != nil {
		return 0, fmt.Errorf("purge cache: delete expired rows: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge cache: rows affected: %w", err)
	}
	return n, nil
}
