package quota

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is the networked counter backend.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (int, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	// Bound as a non-negative integer; a garbled record resets the count
	// rather than poisoning the gate.
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0, nil
	}
	return n, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, count int, ttl time.Duration) error {
	return s.client.Set(ctx, key, strconv.Itoa(count), ttl).Err()
}
