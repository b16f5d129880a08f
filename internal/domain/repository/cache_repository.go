package repository

import (
	"context"
	"time"
)

// CacheRepository is a byte-value cache with TTL semantics. A nil value with
// a nil error is a cache miss.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
