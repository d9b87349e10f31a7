package idempotency

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/directchat-backend/internal/pkg/logger"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	r := require.New(t)
	ctx := context.Background()
	key := uuid.NewString()

	ok, err := s.Claim(ctx, key, "chat-1", time.Minute)
	r.NoError(err)
	r.True(ok)

	ok, err = s.Claim(ctx, key, "chat-1", time.Minute)
	r.NoError(err)
	r.False(ok)

	r.NoError(s.Release(ctx, key))
	ok, err = s.Claim(ctx, key, "chat-1", time.Minute)
	r.NoError(err)
	r.True(ok)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreExpires(t *testing.T) {
	r := require.New(t)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &memoryStore{now: func() time.Time { return now }, entries: map[string]memoryEntry{}}

	ok, err := s.Claim(context.Background(), "k", "v", time.Second)
	r.NoError(err)
	r.True(ok)

	now = now.Add(2 * time.Second)
	ok, err = s.Claim(context.Background(), "k", "v", time.Second)
	r.NoError(err)
	r.True(ok)
	r.Len(s.entries, 1)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis integration tests")
	}
	s, err := NewRedisStore(logger.Nop(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestNewRedisStoreRequiresAddr(t *testing.T) {
	_, err := NewRedisStore(logger.Nop(), " ")
	require.Error(t, err)
}
