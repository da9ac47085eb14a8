package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrSnakeDoc/oneshop/internal/connect"
	"github.com/MrSnakeDoc/oneshop/internal/domain"
	"github.com/MrSnakeDoc/oneshop/internal/logger"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS clicks (
	category   TEXT        NOT NULL,
	brand      TEXT        NOT NULL,
	count      BIGINT      NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (category, brand)
)`

// incrementSQL is a single-statement upsert, so concurrent increments on the
// same row serialize on the row lock and none is lost.
const incrementSQL = `
INSERT INTO clicks (category, brand, count, updated_at)
VALUES ($1, $2, 1, now())
ON CONFLICT (category, brand)
DO UPDATE SET count = clicks.count + 1, updated_at = now()
RETURNING count`

const countsSQL = `SELECT category, brand, count FROM clicks`

// ClickStore persists click counters in Postgres
type ClickStore struct {
	db *pgxpool.Pool
}

// Connect opens a pool and waits until Postgres answers
func Connect(ctx context.Context, dsn string, retry connect.RetryOptions, log logger.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	addr := fmt.Sprintf("%s:%d/%s", cfg.ConnConfig.Host, cfg.ConnConfig.Port, cfg.ConnConfig.Database)
	if err := connect.WaitReady(ctx, "postgres", addr, pool.Ping, retry, log); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewClickStore creates a new Postgres click store
func NewClickStore(db *pgxpool.Pool) *ClickStore {
	return &ClickStore{
		db: db,
	}
}

// EnsureSchema creates the clicks table if it does not exist
func (s *ClickStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create clicks table: %w", err)
	}
	return nil
}

// IncrementClick atomically increments the counter for (category, brand)
func (s *ClickStore) IncrementClick(ctx context.Context, category, brand string) (int64, error) {
	var n int64
	if err := s.db.QueryRow(ctx, incrementSQL, category, brand).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to increment click counter: %w", err)
	}
	return n, nil
}

// ClickCounts retrieves all click counters keyed by domain.ClickKey
func (s *ClickStore) ClickCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.Query(ctx, countsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query click counters: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var category, brand string
		var n int64
		if err := rows.Scan(&category, &brand, &n); err != nil {
			return nil, fmt.Errorf("failed to scan click counter: %w", err)
		}
		counts[domain.ClickKey(category, brand)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read click counters: %w", err)
	}
	return counts, nil
}

// Ping checks the connection
func (s *ClickStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Name identifies the backend in status reports
func (s *ClickStore) Name() string {
	return "postgres"
}
