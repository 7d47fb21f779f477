package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(DefaultOptions())

	_, err := m.Get(ctx, "degrees:bsit")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, "degrees:bsit", `{"canonical_key":"bs_it"}`, 0))
	got, err := m.Get(ctx, "degrees:bsit")
	require.NoError(t, err)
	assert.Equal(t, `{"canonical_key":"bs_it"}`, got)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(Options{DefaultTTL: time.Minute})
	m.nowFunc = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	now = now.Add(2 * time.Minute)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, m.size(), "expired entry is dropped on read")
}

func TestMemory_SetSweepsExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(Options{DefaultTTL: time.Minute})
	m.nowFunc = func() time.Time { return now }

	for _, key := range []string{"degrees:a", "degrees:b", "degrees:c"} {
		require.NoError(t, m.Set(ctx, key, "v", 0))
	}
	require.NoError(t, m.Set(ctx, "degrees:forever", "v", -1))
	assert.Equal(t, 4, m.size())

	now = now.Add(2 * time.Minute)
	require.NoError(t, m.Set(ctx, "eligibilities:x", "v", 0))
	assert.Equal(t, 2, m.size())

	got, err := m.Get(ctx, "degrees:forever")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestMemory_InvalidKeyAndClose(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(DefaultOptions())

	assert.ErrorIs(t, m.Set(ctx, "", "v", 0), ErrInvalidKey)
	_, err := m.Get(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidKey)

	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Set(ctx, "k", "v", 0), ErrClosed)
	_, err = m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrClosed)
}
