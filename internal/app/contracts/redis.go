package contracts

import (
	"context"
	"time"
)

// RedisRepository stores JSON encoded values. Get returns the raw JSON.
type RedisRepository interface {
	Delete(ctx context.Context, key string) error
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Increment(ctx context.Context, key string) (int64, error)
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
	// DeleteIfEqual removes key only while it still holds value.
	DeleteIfEqual(ctx context.Context, key string, value interface{}) (bool, error)
}
