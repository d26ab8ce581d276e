package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flood-watch/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, FeedDatabase, cfg.FeedSource)
	assert.Equal(t, DefaultRefreshSchedule, cfg.RefreshSchedule)
	assert.Equal(t, []models.Severity{models.SeverityHigh, models.SeverityCritical}, cfg.DefaultSeverities)
	assert.Equal(t, 11, cfg.Viewport.RegionZoom)
	assert.Equal(t, 7, cfg.Viewport.CountryZoom)
	assert.Equal(t, 12, cfg.Viewport.RouteZoom)
	assert.Equal(t, 15, cfg.Viewport.DetailZoom)
	assert.Equal(t, 16, cfg.Viewport.NavigateZoom)
	assert.Empty(t, cfg.BroadcastChannels)
	assert.Equal(t, 30*time.Second, cfg.HealthTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("FEED_SOURCE", "demo")
	t.Setenv("REGION_ZOOM", "10")
	t.Setenv("COUNTRY_CENTER_LAT", "13.5")
	t.Setenv("DEFAULT_SEVERITIES", "Low, Medium")
	t.Setenv("BROADCAST_CHANNELS", "Chennai=-1001, *=-1002")
	t.Setenv("SEED_DATABASE", "true")
	t.Setenv("HEALTH_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, FeedDemo, cfg.FeedSource)
	assert.Equal(t, 10, cfg.Viewport.RegionZoom)
	assert.Equal(t, 13.5, cfg.Viewport.CountryCenter.Lat)
	assert.Equal(t, []models.Severity{models.SeverityLow, models.SeverityMedium}, cfg.DefaultSeverities)
	assert.Equal(t, map[string]int64{"Chennai": -1001, "*": -1002}, cfg.BroadcastChannels)
	assert.True(t, cfg.SeedDatabase)
	assert.Equal(t, time.Minute, cfg.HealthTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"feed source", "FEED_SOURCE", "kafka"},
		{"severity", "DEFAULT_SEVERITIES", "High,Unknown"},
		{"channels", "BROADCAST_CHANNELS", "Chennai"},
		{"zoom", "ROUTE_ZOOM", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestParseSeveritiesEmpty(t *testing.T) {
	s, err := ParseSeverities("")
	require.NoError(t, err)
	assert.Empty(t, s)
}
