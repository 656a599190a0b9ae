package ratelimit

import (
	"testing"

	"github.com/cmuseum/catalog/common/config"
	"github.com/cmuseum/catalog/common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResult(t *testing.T) {
	log := logger.Discard()

	res, err := parseResult("k", []interface{}{int64(1), int64(3), int64(10), int64(0)}, log)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, int64(3), res.CurrentCount)

	res, err = parseResult("k", []interface{}{int64(0), int64(11), int64(10), int64(42)}, log)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, int64(42), res.RetryAfterSeconds)

	_, err = parseResult("k", []interface{}{int64(1)}, log)
	assert.Error(t, err)

	_, err = parseResult("k", []interface{}{"1", int64(1), int64(1), int64(0)}, log)
	assert.Error(t, err)
}

func TestLimitsFromConfig(t *testing.T) {
	l := LimitsFromConfig(config.BiddingConfig{UserBidsPerWindow: 3, WindowSeconds: 30})
	assert.Equal(t, int64(3), l.BidderLimit)
	assert.Equal(t, 30, l.BidderWindowSeconds)
	assert.Equal(t, DefaultLimits.GlobalLimit, l.GlobalLimit)
}

func TestScriptEmbedded(t *testing.T) {
	assert.Contains(t, rateLimitScript, "INCR")
}
