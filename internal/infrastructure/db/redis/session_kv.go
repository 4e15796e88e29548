package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sactel/admin-console/internal/infrastructure/store"
)

// SessionKV implements store.KV on Redis. Keys are namespaced per console
// profile: session:<profile>:<key>.
type SessionKV struct {
	client  *redis.Client
	profile string
}

var _ store.KV = (*SessionKV)(nil)

// NewSessionKV creates a SessionKV wrapping the given Redis client.
func NewSessionKV(client *redis.Client, profile string) *SessionKV {
	if profile == "" {
		profile = "default"
	}
	return &SessionKV{client: client, profile: profile}
}

func (s *SessionKV) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get: %w", err)
	}
	return v, nil
}

func (s *SessionKV) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.key(key), value, 0).Err()
}

func (s *SessionKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	return s.client.Del(ctx, full...).Err()
}

// Replace runs the deletes and sets in one MULTI/EXEC transaction.
func (s *SessionKV) Replace(ctx context.Context, set map[string]string, del ...string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if len(del) > 0 {
			full := make([]string, len(del))
			for i, k := range del {
				full[i] = s.key(k)
			}
			pipe.Del(ctx, full...)
		}
		for k, v := range set {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis replace: %w", err)
	}
	return nil
}

func (s *SessionKV) key(k string) string {
	return fmt.Sprintf("session:%s:%s", s.profile, k)
}
