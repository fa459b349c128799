package repository

import (
	"context"
	"time"
)

// CacheRepository stores serialized values by key. A miss is reported by the
// boolean, not by an error.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
