package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(100, time.Minute)

	value := []byte(`["First", "Second"]`)
	require.NoError(t, c.Set(ctx, "key-1", value, time.Minute))

	got, ok, err := c.Get(ctx, "key-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value, got)
}

func TestMemoryCache_MissingKey(t *testing.T) {
	c := NewMemoryCache(100, time.Minute)

	_, ok, err := c.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(100, time.Minute)

	require.NoError(t, c.Set(ctx, "short-lived", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := c.Get(ctx, "short-lived")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must behave as a miss")
}

func TestMemoryCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(100, time.Minute)

	require.NoError(t, c.Set(ctx, "k", []byte("old"), time.Minute))
	require.NoError(t, c.Set(ctx, "k", []byte("new"), time.Minute))

	got, ok, _ := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
	assert.Equal(t, 1, c.Size())
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(3, time.Minute)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Minute))
	}

	// Touch k0 so k1 becomes the eviction candidate.
	_, ok, _ := c.Get(ctx, "k0")
	require.True(t, ok)

	require.NoError(t, c.Set(ctx, "k3", []byte("v"), time.Minute))

	_, ok, _ = c.Get(ctx, "k1")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok, _ = c.Get(ctx, "k0")
	assert.True(t, ok)
	_, ok, _ = c.Get(ctx, "k3")
	assert.True(t, ok)
}

func TestMemoryCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(64, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := fmt.Sprintf("k%d", j%16)
				_ = c.Set(ctx, key, []byte("v"), time.Minute)
				_, _, _ = c.Get(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}

func TestMemoryCache_Close(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Close())

	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)
}
