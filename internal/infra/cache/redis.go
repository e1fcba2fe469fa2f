package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"storefront/internal/cart"

	"github.com/redis/go-redis/v9"
)

// Connect はRedisクライアントを返す（REDIS_ADDR / REDIS_PASSWORD）。
func Connect() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

// CartSnapshotStore はカート明細のJSONスナップショットをRedisに置く。
type CartSnapshotStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartSnapshotStore(client *redis.Client, ttl time.Duration) *CartSnapshotStore {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &CartSnapshotStore{client: client, ttl: ttl}
}

func (s *CartSnapshotStore) Load(ctx context.Context, key string) ([]cart.Item, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var items []cart.Item
	if err := json.Unmarshal(data, &items); err != nil {
		// 壊れたスナップショットは無い扱いにはせず、エラーとして返して
		// 呼び出し側（Hydrate）にログさせる
		return nil, fmt.Errorf("unmarshal cart snapshot failed: %w", err)
	}
	return items, nil
}

func (s *CartSnapshotStore) Save(ctx context.Context, key string, items []cart.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart snapshot failed: %w", err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *CartSnapshotStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
