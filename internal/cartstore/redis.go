package cartstore

import (
	"context"
	"fmt"
	"time"

	pkgredis "github.com/rockshoes/cart-service/pkg/redis"
)

// snapshotRedis is the slice of the Redis client the store needs. Satisfied
// by *pkgredis.Client.
type snapshotRedis interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Ping(ctx context.Context) error
	SnapshotKey(sessionID string) string
}

// RedisStore keeps cart snapshots in Redis. Snapshots have no TTL; a cart
// lives until the session overwrites it.
type RedisStore struct {
	client snapshotRedis
}

var _ Store = (*RedisStore)(nil)
var _ snapshotRedis = (*pkgredis.Client)(nil)

// NewRedisStore binds the store to the provided Redis client.
func NewRedisStore(client snapshotRedis) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.client.SnapshotKey(sessionID))
	if err != nil {
		if pkgredis.IsAbsent(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load snapshot %q: %w", sessionID, err)
	}
	return []byte(value), true, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, payload []byte) error {
	if err := s.client.Set(ctx, s.client.SnapshotKey(sessionID), payload, 0); err != nil {
		return fmt.Errorf("save snapshot %q: %w", sessionID, err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
