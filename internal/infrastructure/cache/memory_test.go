package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", sample{Name: "suit", Count: 2}, time.Minute))

	var got sample
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "suit", Count: 2}, got)

	found, err = c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "short", 1, 10*time.Millisecond))
	require.NoError(t, c.Set(ctx, "forever", 2, 0))
	time.Sleep(25 * time.Millisecond)

	var v int
	found, err := c.Get(ctx, "short", &v)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, c.Len(), "expired entry is removed on read")

	found, err = c.Get(ctx, "forever", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, v)
}

func TestMemoryCache_CleanupLoop(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10 * time.Millisecond)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "a", 1, 5*time.Millisecond))
	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestMemoryCache_DeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)
	defer c.Close()

	for _, k := range []string{"m:products:1", "m:products:list:all", "m:orders:1"} {
		require.NoError(t, c.Set(ctx, k, k, time.Minute))
	}
	require.NoError(t, c.DeleteByPrefix(ctx, "m:products:"))
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.Delete(ctx, "m:orders:1", "unknown"))
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_DecodeMismatchIsMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", "not a struct", time.Minute))
	var got sample
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Close(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Millisecond)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Ping(ctx), ErrClosed)
	assert.ErrorIs(t, c.Set(ctx, "k", 1, 0), ErrClosed)
	_, err := c.Get(ctx, "k", new(int))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Millisecond)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Set(ctx, "k", i, time.Second)
			var v int
			_, _ = c.Get(ctx, "k", &v)
			_ = c.DeleteByPrefix(ctx, "x")
		}(i)
	}
	wg.Wait()
}
