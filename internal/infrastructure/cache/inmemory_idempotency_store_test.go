package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	ctx := context.Background()

	t.Run("claims a new key once", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		first, err := store.MarkProcessed(ctx, "checkout:c1:k1", time.Hour)
		require.NoError(t, err)
		second, err := store.MarkProcessed(ctx, "checkout:c1:k1", time.Hour)
		require.NoError(t, err)

		assert.True(t, first)
		assert.False(t, second)
	})

	t.Run("expired claim can be taken again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return now }

		_, err := store.MarkProcessed(ctx, "k", time.Minute)
		require.NoError(t, err)
		now = now.Add(2 * time.Minute)

		again, err := store.MarkProcessed(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.True(t, again)
	})

	t.Run("release frees the key", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, err := store.MarkProcessed(ctx, "k", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Release(ctx, "k"))

		processed, err := store.IsProcessed(ctx, "k")
		require.NoError(t, err)
		assert.False(t, processed)
		assert.Equal(t, 0, store.Size())
	})
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.MarkProcessed(ctx, "same-key", time.Hour)
			if err == nil && ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, err := store.MarkProcessed(ctx, fmt.Sprintf("short-%d", i), time.Minute)
		require.NoError(t, err)
	}
	_, err := store.MarkProcessed(ctx, "long", time.Hour)
	require.NoError(t, err)

	now = now.Add(10 * time.Minute)
	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_CloseIsIdempotent(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}
