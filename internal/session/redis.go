package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mathclass-bot/internal/registration"
)

// RedisStore keeps conversation contexts in redis so sessions survive a
// restart of the bot process. The key TTL doubles as the conversation
// timeout: an abandoned context simply expires.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (s *RedisStore) Get(ctx context.Context, chatID int64) (*registration.Context, error) {
	data, err := s.client.Get(ctx, stateKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rc registration.Context
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &rc, nil
}

func (s *RedisStore) Save(ctx context.Context, chatID int64, rc *registration.Context) error {
	data, err := json.Marshal(rc)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, stateKey(chatID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, stateKey(chatID)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() {
	if s.client != nil {
		_ = s.client.Close()
	}
}

func stateKey(chatID int64) string {
	return fmt.Sprintf("state:%d", chatID)
}
