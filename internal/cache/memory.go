package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	tags      []string
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore — кеш в памяти процесса. Подходит для single-instance
// развертываний; просроченные записи удаляются лениво при чтении.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	tagged  map[string]map[string]struct{}
}

// NewMemoryStore создает пустой кеш в памяти.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		tagged:  make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrMiss
	}

	if entry.expired(time.Now()) {
		s.removeLocked(key, entry)
		return nil, ErrMiss
	}

	return entry.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	entry := memoryEntry{value: stored, tags: tags}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, ok := s.entries[key]; ok {
		s.removeLocked(key, previous)
	}

	s.entries[key] = entry
	for _, tag := range tags {
		keys, ok := s.tagged[tag]
		if !ok {
			keys = make(map[string]struct{})
			s.tagged[tag] = keys
		}
		keys[key] = struct{}{}
	}

	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, tags ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0

	for _, tag := range tags {
		for key := range s.tagged[tag] {
			entry, ok := s.entries[key]
			if !ok {
				continue
			}
			if !entry.expired(now) {
				removed++
			}
			s.removeLocked(key, entry)
		}
		delete(s.tagged, tag)
	}

	return removed, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) removeLocked(key string, entry memoryEntry) {
	delete(s.entries, key)
	for _, tag := range entry.tags {
		if keys, ok := s.tagged[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.tagged, tag)
			}
		}
	}
}
