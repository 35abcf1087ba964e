package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 90 * 24 * time.Hour

// RedisPersister stores the cart record under a single key. Each Save refreshes the TTL,
// so only abandoned carts expire.
type RedisPersister struct {
	client  *redis.Client
	key     string
	baseTTL time.Duration
}

func NewRedisPersister(client *redis.Client, name string) *RedisPersister {
	return &RedisPersister{
		client:  client,
		key:     cacheKey(name),
		baseTTL: defaultTTL,
	}
}

func (r *RedisPersister) Load(ctx context.Context) (*domain.CartRecord, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var rec domain.CartRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &rec, nil
}

func (r *RedisPersister) Save(ctx context.Context, record *domain.CartRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(24)) * time.Hour
	if err := r.client.Set(ctx, r.key, body, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cacheKey(name string) string {
	return fmt.Sprintf("cart:%s", name)
}
