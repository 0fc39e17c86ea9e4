package usecase

import (
	"context"
	"time"
)

// Locker serializes admin actions on a single entity (validate/reject/renew)
// across instances. The Redis implementation lives in infra; use cases only
// need this narrow interface. A nil Locker disables locking.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

const entityLockTTL = 10 * time.Second

// withEntityLock runs fn under a per-entity lock when a locker is configured.
func withEntityLock(ctx context.Context, locker Locker, key string, fn func() error) error {
	if locker == nil {
		return fn()
	}
	token, err := locker.TryLock(ctx, key, entityLockTTL)
	if err != nil {
		return err
	}
	defer func() { _ = locker.Unlock(ctx, key, token) }()
	return fn()
}
