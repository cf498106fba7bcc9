package redisad

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps the admin session in one Redis hash, so several operator
// machines can share a login.
type SessionStore struct {
	c   *redis.Client
	key string
}

func NewSessionStore(c *redis.Client, key string) *SessionStore {
	if key == "" {
		key = "vayada:admin:session"
	}
	return &SessionStore{c: c, key: key}
}

func (s *SessionStore) GetAll(ctx context.Context, keys ...string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	vals, err := s.c.HMGet(ctx, s.key, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[keys[i]] = str
		}
	}
	return out, nil
}

// SetAll writes every field with one HSET, which Redis applies atomically.
func (s *SessionStore) SetAll(ctx context.Context, kv map[string]string) error {
	if len(kv) == 0 {
		return nil
	}
	args := make([]any, 0, len(kv)*2)
	for k, v := range kv {
		args = append(args, k, v)
	}
	return s.c.HSet(ctx, s.key, args...).Err()
}

func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.c.HDel(ctx, s.key, keys...).Err()
}
