package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"ongkir-service/internal/platform/db"
	"ongkir-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLLookupCache is a SQL-backed ports.LookupCache for postgres (pgx) or sqlite.
// Only the placeholder syntax and upsert statement differ between the two.
type SQLLookupCache struct {
	DB  *sql.DB
	TTL time.Duration

	selectQuery string
	upsertQuery string
	now         func() time.Time
}

func NewSQLLookupCache(conn *sql.DB, driver string, ttl time.Duration) *SQLLookupCache {
	c := &SQLLookupCache{DB: conn, TTL: ttl, now: time.Now}

	if driver == db.DriverPostgres {
		c.selectQuery = `
	SELECT payload
    FROM lookup_cache
    WHERE kind = $1
        AND cache_key = $2
        AND expires_at > $3;
	`
		c.upsertQuery = `
	INSERT INTO lookup_cache (kind, cache_key, payload, expires_at)
    VALUES ($1, $2, $3, $4)
	ON CONFLICT (kind, cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`
		return c
	}

	c.selectQuery = `
	SELECT payload
    FROM lookup_cache
    WHERE kind = ?
        AND cache_key = ?
        AND expires_at > ?;
	`
	c.upsertQuery = `
	INSERT OR REPLACE INTO lookup_cache (
        kind,
        cache_key,
        payload,
        expires_at
    )
    VALUES (?, ?, ?, ?);
	`
	return c
}

// Fetch a cached payload that has not expired.
func (s *SQLLookupCache) Get(ctx context.Context, kind, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "lookup.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("lookup cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get lookup cache: key must not be empty")
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, s.selectQuery, kind, key, s.now().Unix()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get lookup cache %s/%q: %w", kind, key, err)
	}

	return payload, true, nil
}

// Store a payload, replacing any previous entry for kind/key.
func (s *SQLLookupCache) Put(ctx context.Context, kind, key string, payload []byte) error {
	if s.DB == nil {
		return errors.New("lookup cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert lookup cache: empty key")
	}

	expiresAt := s.now().Add(s.TTL).Unix()
	if _, err := s.DB.ExecContext(ctx, s.upsertQuery, kind, key, payload, expiresAt); err != nil {
		return fmt.Errorf("insert lookup cache %s/%q: %w", kind, key, err)
	}

	return nil
}
