package domain

import (
	"context"
	"time"
)

// CacheError is returned by Cache implementations for conditions callers handle explicitly.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

const ErrCacheMiss = CacheError("cache: key not found")

// Cache stores serialized articles and quizzes. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns ErrCacheMiss when key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A zero ttl keeps it until evicted.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
