package cache

import (
	"context"
	"errors"
	"time"
)

var ErrMiss = errors.New("cache miss")

// Store — тегируемый кеш контента: запись живет до TTL или до
// инвалидации любого из ее тегов.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	// Invalidate удаляет все записи с перечисленными тегами и возвращает
	// число удаленных ключей.
	Invalidate(ctx context.Context, tags ...string) (int, error)
	Ping(ctx context.Context) error
	Close() error
}
