package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/MrSnakeDoc/oneshop/internal/domain"
)

// IncrementClick atomically increments the counter for (category, brand)
func (s *Store) IncrementClick(ctx context.Context, category, brand string) (int64, error) {
	n, err := s.client.HIncrBy(ctx, KeyClicks, domain.ClickKey(category, brand), 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment click counter: %w", err)
	}
	return n, nil
}

// ClickCounts retrieves all click counters
func (s *Store) ClickCounts(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, KeyClicks).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get click counters: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for key, val := range raw {
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			// Skip counters that are not integers
			continue
		}
		counts[key] = n
	}
	return counts, nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Name identifies the backend in status reports
func (s *Store) Name() string {
	return "redis"
}
