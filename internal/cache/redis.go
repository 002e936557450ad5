package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"example.com/roi-estimator/backend/internal/config"
)

const tagKeyPrefix = "tag:"

// RedisStore — кеш контента в Redis: значения с TTL, членство в тегах
// через множества.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore оборачивает готовый клиент Redis.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// OpenRedis создает клиент Redis и проверяет подключение с ретраями.
func OpenRedis(ctx context.Context, cfg config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	var err error

	retries := 5
	backoff := time.Second * 1

	for i := 0; i < retries; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = client.Ping(pingCtx).Err()
		cancel()

		if err == nil {
			return NewRedisStore(client), nil
		}

		log.Printf("Попытка подключения к Redis %d/%d не удалась: %v. Повтор через %v", i+1, retries, err, backoff)

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
		}
	}

	_ = client.Close()
	return nil, fmt.Errorf("не удалось подключиться к Redis после %d попыток: %w", retries, err)
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrMiss
		}
		return nil, err
	}
	return value, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return err
	}

	for _, tag := range tags {
		if err := s.client.SAdd(ctx, tagKeyPrefix+tag, key).Err(); err != nil {
			return err
		}
	}

	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context, tags ...string) (int, error) {
	removed := 0

	for _, tag := range tags {
		keys, err := s.client.SMembers(ctx, tagKeyPrefix+tag).Result()
		if err != nil {
			return removed, err
		}

		if len(keys) > 0 {
			deleted, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(deleted)
		}

		if err := s.client.Del(ctx, tagKeyPrefix+tag).Err(); err != nil {
			return removed, err
		}
	}

	return removed, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
