package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLoginWindow = time.Minute

// LoginLimiter counts login attempts per subject inside a fixed window.
// Key format: rl:login:<subject>
type LoginLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

// NewLoginLimiter allows maxPerWindow attempts per window (one minute when
// window is zero).
func NewLoginLimiter(client *redis.Client, maxPerWindow int, window time.Duration) *LoginLimiter {
	if maxPerWindow <= 0 {
		maxPerWindow = 5
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginLimiter{client: client, max: int64(maxPerWindow), window: window}
}

// Allow records one attempt and reports whether subject is still within the
// limit.
func (l *LoginLimiter) Allow(ctx context.Context, subject string) (bool, error) {
	key := l.key(subject)
	cnt, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("login limiter: %w", err)
	}
	if cnt == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return true, fmt.Errorf("login limiter expire: %w", err)
		}
	}
	return cnt <= l.max, nil
}

// Reset forgets the attempts of subject, typically after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, subject string) error {
	return l.client.Del(ctx, l.key(subject)).Err()
}

func (l *LoginLimiter) key(subject string) string {
	return "rl:login:" + strings.ToLower(strings.TrimSpace(subject))
}
