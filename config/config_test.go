package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.RespectRobots)
	assert.Equal(t, "normal", cfg.DelayProfile)
	assert.Equal(t, 2.0, cfg.RatePerSecond)
	assert.Equal(t, 3, cfg.RateBurst)
	assert.Equal(t, 5, cfg.MaxConcurrent)
	assert.Equal(t, "data/trendmuse.db", cfg.DBPath)
	assert.Equal(t, "8080", cfg.HTTPPort)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TRENDMUSE_DELAY_PROFILE", "aggressive")
	t.Setenv("TRENDMUSE_RATE_PER_SECOND", "0.5")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "aggressive", cfg.DelayProfile)
	assert.Equal(t, 0.5, cfg.RatePerSecond)
	assert.Equal(t, "9090", cfg.HTTPPort)
}

func TestLoadRejectsBadProfile(t *testing.T) {
	t.Setenv("TRENDMUSE_DELAY_PROFILE", "reckless")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delay profile")
}
