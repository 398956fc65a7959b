package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/itinerary/internal/domain"
)

// redisSlotRepo is the Redis implementation of SlotRepo.
// Each slot is a plain string key with no expiry, optionally namespaced by prefix.
type redisSlotRepo struct {
	client redis.Cmdable
	prefix string
}

// NewRedisSlotRepo constructs a SlotRepo backed by client.
// prefix is prepended to every slot key (e.g. "itinerary:").
func NewRedisSlotRepo(client redis.Cmdable, prefix string) SlotRepo {
	return &redisSlotRepo{client: client, prefix: prefix}
}

func (r *redisSlotRepo) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("repo.RedisSlotRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.RedisSlotRepo.Get: %w", err)
	}
	return v, nil
}

func (r *redisSlotRepo) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("repo.RedisSlotRepo.Set: %w", err)
	}
	return nil
}
