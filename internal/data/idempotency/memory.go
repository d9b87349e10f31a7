package idempotency

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	expires time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore keeps claims in process. Entries are swept lazily on Claim.
func NewMemoryStore() Store {
	return &memoryStore{now: time.Now, entries: make(map[string]memoryEntry)}
}

func (s *memoryStore) Claim(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
		}
	}
	if _, held := s.entries[key]; held {
		return false, nil
	}
	s.entries[key] = memoryEntry{value: value, expires: now.Add(ttl)}
	return true, nil
}

func (s *memoryStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *memoryStore) Close() error { return nil }
