package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_checkout/internal/domain"
)

type RedisCartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCartCache(client *redis.Client) *RedisCartCache {
	return &RedisCartCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (r *RedisCartCache) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartCacheKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (r *RedisCartCache) Set(ctx context.Context, sessionID string, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	// jitter spreads expirations so a burst of carts does not expire at once
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cartCacheKey(sessionID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCartCache) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartCacheKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cartCacheKey(sessionID string) string {
	return fmt.Sprintf("checkout:cart:%s", sessionID)
}

// RedisSessionStore keeps the authenticated identity per visitor with a
// sliding-window TTL. A missing key is an anonymous session.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (r *RedisSessionStore) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis get failed: %w", err)
	}

	var user domain.UserInfo
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return domain.Session{User: &user}, nil
}

func (r *RedisSessionStore) Set(ctx context.Context, sessionID string, user domain.UserInfo) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("checkout:session:%s", sessionID)
}
