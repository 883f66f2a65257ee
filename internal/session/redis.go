package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:session:"

// RedisStore persists the session in Redis, for hosts that run
// server-side and keep user sessions in a shared store. Each store
// instance owns one key, named after the session it holds.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a store for the named session. A zero ttl means
// the key never expires.
func NewRedisStore(client *redis.Client, name string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    redisKey(name),
		ttl:    ttl,
	}
}

func redisKey(name string) string {
	return redisKeyPrefix + name
}

// Load rehydrates the session from Redis.
func (r *RedisStore) Load(ctx context.Context) (Session, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err == redis.Nil {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, fmt.Errorf("parse session: %w", err)
	}
	if !s.Present() {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Save writes the session under the store's key.
func (r *RedisStore) Save(ctx context.Context, s Session) error {
	if !s.Present() {
		return fmt.Errorf("refusing to save partial session")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear deletes the session key.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
