package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainwechat "github.com/zy0930/wechat-poc2/internal/domain/wechat"
	"github.com/zy0930/wechat-poc2/internal/repository"
)

const sessionPrefix = "wechat:session:"

// RedisSessionStore implements SessionStore backed by Redis.
type RedisSessionStore struct {
	client redis.UniversalClient
}

var _ repository.SessionStore = (*RedisSessionStore)(nil)

// NewRedisSessionStore constructs a Redis-backed session store.
func NewRedisSessionStore(client redis.UniversalClient) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// SaveSession stores the encoded session payload with TTL.
func (s *RedisSessionStore) SaveSession(ctx context.Context, sid string, session domainwechat.UserSession, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionPrefix+sid, payload, ttl).Err(); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// GetSession loads and decodes the session payload. A missing key returns
// (nil, nil).
func (s *RedisSessionStore) GetSession(ctx context.Context, sid string) (*domainwechat.UserSession, error) {
	bytes, err := s.client.Get(ctx, sessionPrefix+sid).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	var session domainwechat.UserSession
	if err := json.Unmarshal(bytes, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes the persisted session key.
func (s *RedisSessionStore) DeleteSession(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, sessionPrefix+sid).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
