package contracts

import (
	"context"
	"time"
)

// LockerService guards session transitions across API replicas. TryLock
// returns the token that Unlock needs to release the lock.
type LockerService interface {
	TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error)
	Unlock(ctx context.Context, key, lockValue string) error
}
