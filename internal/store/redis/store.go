package redis

import (
	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for catalog snapshots and click counters
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}
