// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(viper.New(), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.GithubUsername, "a missing username is not an error")
	assert.Equal(t, "data/featured-projects.json", cfg.FeaturedConfigPath)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 60, cfg.RateLimitMaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 3, cfg.FetchMaxRetries)
	assert.Equal(t, time.Second, cfg.FetchBaseDelay)
	assert.Equal(t, 10*time.Second, cfg.FetchMaxDelay)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 50, cfg.CandidateLimit)
	assert.Equal(t, 8, cfg.EnrichConcurrency)
	assert.Equal(t, []string{"TypeScript", "JavaScript", "Python", "React", "Next.js"}, cfg.PopularLanguages)
	assert.False(t, cfg.CookieSecure)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("GITHUB_USERNAME", "octo")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5000")
	t.Setenv("POPULAR_LANGUAGES", "Go, Rust")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := load(viper.New(), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, "octo", cfg.GithubUsername)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 5000, cfg.RateLimitMaxRequests)
	assert.Equal(t, []string{"Go", "Rust"}, cfg.PopularLanguages)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GITHUB_USERNAME=from-file\nCANDIDATE_LIMIT=20\n"), 0o600))

	cfg, err := load(viper.New(), dir)

	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.GithubUsername)
	assert.Equal(t, 20, cfg.CandidateLimit)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"malformed duration", "CACHE_TTL", "ten minutes"},
		{"zero ttl", "CACHE_TTL", "0s"},
		{"negative retries", "FETCH_MAX_RETRIES", "-1"},
		{"zero rate limit", "RATE_LIMIT_MAX_REQUESTS", "0"},
		{"zero concurrency", "ENRICH_CONCURRENCY", "0"},
		{"base delay above max", "FETCH_BASE_DELAY", "1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := load(viper.New(), t.TempDir())

			assert.Error(t, err)
		})
	}
}
