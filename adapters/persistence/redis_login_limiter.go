package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khoahotran/profile-hub/internal/application/service"
)

const loginAttemptsKeyPrefix = "login_attempts:"

type redisLoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int
	window      time.Duration
}

// NewRedisLoginLimiter allows maxAttempts logins per email within window.
// The window starts at the first attempt and is cleared on success.
func NewRedisLoginLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) service.LoginLimiter {
	return &redisLoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func loginAttemptsKey(email string) string {
	return loginAttemptsKeyPrefix + strings.ToLower(email)
}

// Allow counts the attempt and reads the key's TTL in one transaction. A
// counter left without expiry, e.g. after a failed EXPIRE, gets its window
// re-armed on the next attempt.
func (l *redisLoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := loginAttemptsKey(email)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to count login attempt: %w", err)
	}

	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set login window: %w", err)
		}
	}

	return incr.Val() <= int64(l.maxAttempts), nil
}

func (l *redisLoginLimiter) Reset(ctx context.Context, email string) error {
	if err := l.client.Del(ctx, loginAttemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to reset login attempts: %w", err)
	}
	return nil
}
