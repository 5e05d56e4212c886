package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, m.Set(ctx, "forever", "v", 0))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	now = now.Add(time.Minute)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	_, err = m.Get(ctx, "forever")
	assert.NoError(t, err)
}

func TestMemory_Incr(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	n, err := m.Incr(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, _ = m.Incr(ctx, "gen")
	assert.Equal(t, int64(2), n)

	got, err := m.Get(ctx, "gen")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var s Store = Noop{}

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	n, err := s.Incr(ctx, "k")
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
