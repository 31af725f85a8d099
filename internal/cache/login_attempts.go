package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	failedKeyPrefix = "login_failed:"
	lockedKeyPrefix = "login_locked:"
)

// LoginAttempts counts failed logins per account name and locks the
// name once the count reaches max within the window.
type LoginAttempts struct {
	store  Store
	max    int64
	window time.Duration
	log    zerolog.Logger
}

// NewLoginAttempts creates a tracker over store
func NewLoginAttempts(store Store, max int, window time.Duration, log zerolog.Logger) *LoginAttempts {
	return &LoginAttempts{store: store, max: int64(max), window: window, log: log}
}

// Locked reports whether key is currently locked out
func (l *LoginAttempts) Locked(ctx context.Context, key string) (bool, error) {
	locked, err := l.store.Exists(ctx, lockedKeyPrefix+key)
	if err != nil {
		return false, fmt.Errorf("check lock: %w", err)
	}
	return locked, nil
}

// RecordFailure increments the failure counter and returns the new count
func (l *LoginAttempts) RecordFailure(ctx context.Context, key string) (int64, error) {
	failedKey := failedKeyPrefix + key

	attempts, err := l.store.Increment(ctx, failedKey)
	if err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}

	// Window starts at the first failure
	if attempts == 1 {
		if err := l.store.Expire(ctx, failedKey, l.window); err != nil {
			l.log.Error().Err(err).Str("key", failedKey).Msg("Failed to set expiry")
		}
	}

	if attempts >= l.max {
		if err := l.store.Set(ctx, lockedKeyPrefix+key, "1", l.window); err != nil {
			return attempts, fmt.Errorf("lock account: %w", err)
		}
		if err := l.store.Delete(ctx, failedKey); err != nil {
			l.log.Error().Err(err).Str("key", failedKey).Msg("Failed to clear counter")
		}
		l.log.Warn().Str("name", key).Int64("attempts", attempts).Msg("Login locked after repeated failures")
	}

	return attempts, nil
}

// Reset clears the counter and any lock for key
func (l *LoginAttempts) Reset(ctx context.Context, key string) error {
	return l.store.Delete(ctx, failedKeyPrefix+key, lockedKeyPrefix+key)
}
