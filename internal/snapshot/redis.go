package snapshot

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

type redisPort struct {
	client *redis.Client
}

// NewRedisPort stores snapshot values as plain redis strings without expiry.
func NewRedisPort(client *redis.Client) Port {
	return &redisPort{client: client}
}

func (r *redisPort) Load(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *redisPort) Save(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *redisPort) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
