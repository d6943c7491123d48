package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"product-catalog/internal/catalog"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the catalog document under a single key with no expiry.
type RedisStore struct {
	rdb     *redis.Client
	key     string
	decoder decoder
}

func NewRedis(rdb *redis.Client, key string, strict bool, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		rdb:     rdb,
		key:     key,
		decoder: decoder{strict: strict, logger: logger, source: "redis:" + key},
	}
}

func (s *RedisStore) LoadAll(ctx context.Context) ([]catalog.Product, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []catalog.Product{}, nil
		}
		return nil, fmt.Errorf("get catalog key %q: %w", s.key, err)
	}

	return s.decoder.decode(data)
}

func (s *RedisStore) SaveAll(ctx context.Context, items []catalog.Product) error {
	data, err := encode(items)
	if err != nil {
		return err
	}

	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set catalog key %q: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()
	return s.rdb.Ping(ctx).Err()
}
