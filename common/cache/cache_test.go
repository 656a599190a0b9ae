package cache

import (
	"context"
	"testing"
	"time"

	"github.com/cmuseum/catalog/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache(logger.Discard())
	defer c.Close()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "artifacts:all")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "artifacts:all", []byte(`[]`), time.Minute))
	val, ok, err := c.Get(ctx, "artifacts:all")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), val)

	require.NoError(t, c.Delete(ctx, "artifacts:all"))
	_, ok, _ = c.Get(ctx, "artifacts:all")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(logger.Discard())
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	c := NewMemoryCache(logger.Discard())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	// writes after close are dropped
	assert.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	_, ok, _ := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
