package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "id")
	t.Setenv("REDDIT_CLIENT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "id", cfg.RedditClientID)
	assert.Equal(t, "secret", cfg.RedditClientSecret)
	assert.Equal(t, "PainPointScraper/1.0", cfg.RedditUserAgent)
	assert.Equal(t, "https://www.reddit.com/api/v1/access_token", cfg.RedditAuthURL)
	assert.Equal(t, "https://oauth.reddit.com", cfg.RedditAPIBase)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Second, cfg.Pacing)
	assert.False(t, cfg.ConcurrentFeeds)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_MissingCredentials(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "")
	t.Setenv("REDDIT_CLIENT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDDIT_CLIENT_ID")
	assert.Contains(t, err.Error(), "REDDIT_CLIENT_SECRET")
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("REDDIT_API_BASE", "http://localhost:9999/")
	t.Setenv("PACING_MS", "250")
	t.Setenv("CONCURRENT_FEEDS", "true")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("APP_ENV", EnvProduction)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.RedditAPIBase)
	assert.Equal(t, 250*time.Millisecond, cfg.Pacing)
	assert.True(t, cfg.ConcurrentFeeds)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("PACING_MS", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_HTTPTimeoutMustBePositive(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT_SECONDS")
}

func TestLoad_ZeroPacingIsAllowed(t *testing.T) {
	setRequired(t)
	t.Setenv("PACING_MS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.Pacing)
}

func TestLoad_InvalidLogLevelFallsBackToInfo(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "LOUD")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}
