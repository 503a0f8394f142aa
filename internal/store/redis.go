package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mfakhry/pantry-orders/internal/domain"
)

const (
	inventoryKey = "inventory"
	ordersKey    = "orders"
)

// RedisStore persists each collection as a single JSON value under a fixed
// key. The whole-collection contract maps directly onto GET and SET.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) ReadInventory(ctx context.Context) ([]domain.StockItem, error) {
	data, err := s.client.Get(ctx, inventoryKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.SeedInventory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", inventoryKey, err)
	}

	var items []domain.StockItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal inventory: %w", err)
	}
	return items, nil
}

func (s *RedisStore) WriteInventory(ctx context.Context, items []domain.StockItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal inventory: %w", err)
	}

	if err := s.client.Set(ctx, inventoryKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", inventoryKey, err)
	}
	return nil
}

func (s *RedisStore) ReadOrders(ctx context.Context) ([]domain.Order, error) {
	data, err := s.client.Get(ctx, ordersKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Order{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", ordersKey, err)
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("unmarshal orders: %w", err)
	}
	return orders, nil
}

func (s *RedisStore) WriteOrders(ctx context.Context, orders []domain.Order) error {
	data, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("marshal orders: %w", err)
	}

	if err := s.client.Set(ctx, ordersKey, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", ordersKey, err)
	}
	return nil
}
