package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

const selectedNetworkKey = "c/selected_network"

// RedisStore keeps the selected network id under a single redis key.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	if strings.TrimSpace(key) == "" {
		key = selectedNetworkKey
	}
	return &RedisStore{
		rdb: rdb,
		key: key,
	}
}

func (s *RedisStore) Load(ctx context.Context) (string, error) {
	res, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return res, nil
}

func (s *RedisStore) Save(ctx context.Context, id string) error {
	return s.rdb.Set(ctx, s.key, id, 0).Err()
}
