package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"claimcheck/observability"
)

// PostgresStore persists cache entries in a verification_cache table so
// warm data survives restarts. Layout: (operation, key) -> (value bytes,
// expires_at); the database clock decides expiry.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to the database and ensures the cache table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS verification_cache (
			operation  TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      BYTEA NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (operation, key)
		)
	`)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create cache table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Get retrieves a cached value. Expiry is checked database-side to avoid
// clock skew between app instances.
func (s *PostgresStore) Get(ctx context.Context, operation, key string) ([]byte, bool) {
	metrics := observability.GetMetrics()

	var value []byte
	err := s.pool.QueryRow(ctx, `
		SELECT value FROM verification_cache
		WHERE operation = $1 AND key = $2 AND expires_at > NOW()
	`, operation, key).Scan(&value)

	if err == pgx.ErrNoRows {
		metrics.RecordCacheMiss(operation)
		return nil, false
	}
	if err != nil {
		observability.Warn("cache query failed", "operation", operation, "error", err)
		metrics.RecordCacheMiss(operation)
		return nil, false
	}

	metrics.RecordCacheHit(operation)
	return value, true
}

// Set stores a value with a TTL.
func (s *PostgresStore) Set(ctx context.Context, operation, key string, value []byte, ttl time.Duration) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO verification_cache (operation, key, value, expires_at)
		VALUES ($1, $2, $3, NOW() + $4::interval)
		ON CONFLICT (operation, key)
		DO UPDATE SET value = EXCLUDED.value, expires_at = NOW() + $4::interval, created_at = NOW()
	`, operation, key, value, ttl.String())

	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// CleanExpired removes all expired cache entries and returns the count.
func (s *PostgresStore) CleanExpired(ctx context.Context) (int64, error) {
	result, err := s.pool.Exec(ctx, `DELETE FROM verification_cache WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired cache: %w", err)
	}
	return result.RowsAffected(), nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

var _ Store = (*PostgresStore)(nil)
