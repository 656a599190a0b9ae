package bootstrap

import (
	"context"
	"testing"

	"github.com/cmuseum/catalog/common/config"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/cmuseum/catalog/common/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WithoutExternalDeps(t *testing.T) {
	cfg, err := config.Load("catalog")
	require.NoError(t, err)

	ctx := context.Background()
	components, err := Setup(ctx, "catalog",
		WithCustomConfig(cfg),
		WithCustomLogger(logger.Discard()),
		WithoutDB(),
		WithoutRedis(),
		WithoutTelemetry(),
	)
	require.NoError(t, err)

	assert.Nil(t, components.DB)
	assert.Nil(t, components.Redis)
	assert.Nil(t, components.Metrics())
	assert.IsType(t, &queue.MemoryQueue{}, components.Queue)
	assert.NotNil(t, components.Cache)

	require.NoError(t, components.Health(ctx))
	require.NoError(t, components.Shutdown(ctx))
	// second shutdown has nothing left to clean
	require.NoError(t, components.Shutdown(ctx))
}

func TestShutdown_LIFO(t *testing.T) {
	c := &Components{Logger: logger.Discard()}

	var order []int
	c.addCleanup(func() error { order = append(order, 1); return nil })
	c.addCleanup(func() error { order = append(order, 2); return nil })
	c.addCleanup(func() error { order = append(order, 3); return nil })

	require.NoError(t, c.Shutdown(context.Background()))
	assert.Equal(t, []int{3, 2, 1}, order)
}
