// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel string `mapstructure:"LOG_LEVEL"`
	HTTPAddr string `mapstructure:"HTTP_ADDR"`

	GithubUsername string `mapstructure:"GITHUB_USERNAME"`
	GithubToken    string `mapstructure:"GITHUB_TOKEN"`
	GithubAPIURL   string `mapstructure:"GITHUB_API_URL"`

	DBURL              string `mapstructure:"DB_URL"`
	FeaturedConfigPath string `mapstructure:"FEATURED_CONFIG_PATH"`

	CacheTTL             time.Duration `mapstructure:"CACHE_TTL"`
	RateLimitMaxRequests int           `mapstructure:"RATE_LIMIT_MAX_REQUESTS"`
	RateLimitWindow      time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	FetchMaxRetries      int           `mapstructure:"FETCH_MAX_RETRIES"`
	FetchBaseDelay       time.Duration `mapstructure:"FETCH_BASE_DELAY"`
	FetchMaxDelay        time.Duration `mapstructure:"FETCH_MAX_DELAY"`
	FetchTimeout         time.Duration `mapstructure:"FETCH_TIMEOUT"`
	CandidateLimit       int           `mapstructure:"CANDIDATE_LIMIT"`
	EnrichConcurrency    int           `mapstructure:"ENRICH_CONCURRENCY"`
	PopularLanguages     []string      `mapstructure:"POPULAR_LANGUAGES"`

	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	JWTSecret     string `mapstructure:"JWT_SECRET"`
	CookieSecure  bool   `mapstructure:"COOKIE_SECURE"`
}

var defaults = map[string]any{
	"LOG_LEVEL":               "info",
	"HTTP_ADDR":               ":8080",
	"GITHUB_USERNAME":         "",
	"GITHUB_TOKEN":            "",
	"GITHUB_API_URL":          "",
	"DB_URL":                  "",
	"FEATURED_CONFIG_PATH":    "data/featured-projects.json",
	"CACHE_TTL":               "10m",
	"RATE_LIMIT_MAX_REQUESTS": 60,
	"RATE_LIMIT_WINDOW":       "1m",
	"FETCH_MAX_RETRIES":       3,
	"FETCH_BASE_DELAY":        "1s",
	"FETCH_MAX_DELAY":         "10s",
	"FETCH_TIMEOUT":           "10s",
	"CANDIDATE_LIMIT":         50,
	"ENRICH_CONCURRENCY":      8,
	"POPULAR_LANGUAGES":       "TypeScript,JavaScript,Python,React,Next.js",
	"ADMIN_PASSWORD":          "",
	"JWT_SECRET":              "",
	"COOKIE_SECURE":           false,
}

// LoadConfig reads configuration from a .env file in the working directory
// and/or environment variables.
func LoadConfig() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, dir string) (*Config, error) {
	// Every key needs a default so AutomaticEnv can see it during Unmarshal.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
	}

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.PopularLanguages = trimAll(cfg.PopularLanguages)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. A missing GitHub username is allowed; the
// service then serves fallback data.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR must not be empty")
	}

	positive := map[string]time.Duration{
		"CACHE_TTL":         c.CacheTTL,
		"RATE_LIMIT_WINDOW": c.RateLimitWindow,
		"FETCH_BASE_DELAY":  c.FetchBaseDelay,
		"FETCH_MAX_DELAY":   c.FetchMaxDelay,
		"FETCH_TIMEOUT":     c.FetchTimeout,
	}
	for key, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%s must be a positive duration", key)
		}
	}
	if c.FetchBaseDelay > c.FetchMaxDelay {
		return errors.New("FETCH_BASE_DELAY must not exceed FETCH_MAX_DELAY")
	}

	if c.RateLimitMaxRequests <= 0 {
		return errors.New("RATE_LIMIT_MAX_REQUESTS must be positive")
	}
	if c.FetchMaxRetries < 0 {
		return errors.New("FETCH_MAX_RETRIES must not be negative")
	}
	if c.CandidateLimit <= 0 {
		return errors.New("CANDIDATE_LIMIT must be positive")
	}
	if c.EnrichConcurrency <= 0 {
		return errors.New("ENRICH_CONCURRENCY must be positive")
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
