package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDriver backs the queue with a Redis list so dispatched jobs survive
// restarts and multiple workers can share one queue.
type RedisDriver struct {
	client *redis.Client
	key    string
}

// NewRedisDriver creates a driver pushing to the given list key.
func NewRedisDriver(client *redis.Client, key string) *RedisDriver {
	if key == "" {
		key = "pecaforte:queue"
	}
	return &RedisDriver{client: client, key: key}
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.client.RPush(context.Background(), d.key, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	for {
		res, err := d.client.BLPop(ctx, 5*time.Second, d.key).Result()
		if err == nil && len(res) == 2 {
			return []byte(res[1]), nil
		}
		if errors.Is(err, redis.Nil) {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue // timeout, poll again
		}
		if err != nil {
			return nil, fmt.Errorf("queue/redis: pop: %w", err)
		}
	}
}
