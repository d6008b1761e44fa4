package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the access token in Redis. It is the primary store
// for shared deployments, where several console processes on one host
// must observe the same session (the file store covers the single
// process case).
//
// Keys are laid out as "<prefix>:access_token"; Clear also sweeps the
// unprefixed legacy keys written by older builds.
type RedisStore struct {
	rdb       *redis.Client
	prefix    string
	opTimeout time.Duration
}

// NewRedisStore creates a RedisStore using the given key prefix. A zero
// opTimeout defaults to five seconds per operation.
func NewRedisStore(rdb *redis.Client, prefix string, opTimeout time.Duration) *RedisStore {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &RedisStore{rdb: rdb, prefix: prefix, opTimeout: opTimeout}
}

func (s *RedisStore) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + ":" + name
}

func (s *RedisStore) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opTimeout)
}

// Has reports whether a token is stored.
func (s *RedisStore) Has() bool {
	_, ok := s.Get()
	return ok
}

// Get reads the stored token. Connectivity failures read as "no token":
// the session manager fails closed on a missing token, which is the
// right outcome when the store is unreachable.
func (s *RedisStore) Get() (string, bool) {
	ctx, cancel := s.opContext()
	defer cancel()

	tok, err := s.rdb.Get(ctx, s.key(KeyAccessToken)).Result()
	if err != nil || tok == "" {
		return "", false
	}
	return tok, true
}

// Set stores the token without a TTL; expiry lives inside the token.
func (s *RedisStore) Set(token string) error {
	ctx, cancel := s.opContext()
	defer cancel()

	return s.rdb.Set(ctx, s.key(KeyAccessToken), token, 0).Err()
}

// Clear deletes the token and every legacy key, idempotently.
func (s *RedisStore) Clear() error {
	ctx, cancel := s.opContext()
	defer cancel()

	keys := make([]string, 0, 6)
	for _, name := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		keys = append(keys, s.key(name))
		if s.prefix != "" {
			keys = append(keys, name)
		}
	}
	return s.rdb.Del(ctx, keys...).Err()
}
