package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key or set member does not exist.
var ErrNotFound = errors.New("store: key not found")

// KV is the key-value surface the identity and social-graph services are
// written against. RedisStore is the production implementation; MemoryStore
// backs tests and Redis-less runs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, pattern string) ([]string, error)

	SetAdd(ctx context.Context, key string, members ...string) error
	SetRemove(ctx context.Context, key string, members ...string) error
	SetContains(ctx context.Context, key, member string) (bool, error)
	SetMembers(ctx context.Context, key string) ([]string, error)
}
