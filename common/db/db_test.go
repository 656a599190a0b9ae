package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmuseum/catalog/common/config"
	"github.com/cmuseum/catalog/common/logger"
)

func TestPoolConfig(t *testing.T) {
	cfg, err := config.Load("catalog")
	require.NoError(t, err)
	cfg.Database.MaxConns = 12
	cfg.Database.MinConns = 3

	poolConfig, err := PoolConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, int32(12), poolConfig.MaxConns)
	assert.Equal(t, int32(3), poolConfig.MinConns)
	assert.Equal(t, "UTC", poolConfig.ConnConfig.RuntimeParams["timezone"])
	assert.Equal(t, "cmuseum-catalog", poolConfig.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "catalog", poolConfig.ConnConfig.Database)
}

func TestPoolConfig_BadURL(t *testing.T) {
	cfg, err := config.Load("catalog")
	require.NoError(t, err)
	cfg.Database.Port = -1

	_, err = PoolConfig(cfg)
	assert.Error(t, err)
}

// Requires Postgres from the default config; skipped otherwise.
func TestMigrateAndWithTx(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg, err := config.Load("catalog")
	require.NoError(t, err)

	d, err := New(ctx, cfg, logger.Discard())
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	defer d.Close()

	// idempotent
	require.NoError(t, Migrate(ctx, d))
	require.NoError(t, Migrate(ctx, d))

	var tz string
	require.NoError(t, d.QueryRow(ctx, `SHOW timezone`).Scan(&tz))
	assert.Equal(t, "UTC", tz)

	groupID := "test-tx-" + time.Now().Format("150405.000000")
	failed := errors.New("rolled back")
	err = d.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO display_group (group_id, name) VALUES ($1, $1)`, groupID); err != nil {
			return err
		}
		return failed
	})
	assert.ErrorIs(t, err, failed)

	var n int
	require.NoError(t, d.QueryRow(ctx, `SELECT COUNT(*) FROM display_group WHERE group_id = $1`, groupID).Scan(&n))
	assert.Zero(t, n)
}
