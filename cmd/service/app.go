// cmd/service/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github-portfolio/internal/cache"
	"github-portfolio/internal/config"
	"github-portfolio/internal/featured"
	"github-portfolio/internal/github"
	"github-portfolio/internal/limiter"
	"github-portfolio/internal/metrics"
	"github-portfolio/internal/pipeline"
	"github-portfolio/internal/retry"
	"github-portfolio/internal/scoring"
)

// app holds the wired pipeline and the resources to release on exit.
type app struct {
	pipeline *pipeline.Pipeline
	dbpool   *pgxpool.Pool
}

func (a *app) Close() {
	if a.dbpool != nil {
		a.dbpool.Close()
	}
}

// buildApp wires the pipeline from configuration. The featured store lives in
// Postgres when DB_URL is set and in a JSON file otherwise.
func buildApp(ctx context.Context, cfg *config.Config, migrationsDir string, m *metrics.Metrics, logger *slog.Logger) (*app, error) {
	a := &app{}

	var store featured.Store
	if cfg.DBURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := dbpool.Ping(ctx); err != nil {
			dbpool.Close()
			return nil, fmt.Errorf("failed to reach database: %w", err)
		}
		logger.Info("Database connection established")

		if err := runMigrations(migrationsDir, cfg.DBURL); err != nil {
			dbpool.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		logger.Info("Database migrations applied successfully")

		a.dbpool = dbpool
		store = featured.NewPostgresStore(dbpool)
	} else {
		logger.Info("Using file featured store", "path", cfg.FeaturedConfigPath)
		store = featured.NewFileStore(cfg.FeaturedConfigPath)
	}

	ghClient, err := github.NewClient(github.Config{
		Token:   cfg.GithubToken,
		BaseURL: cfg.GithubAPIURL,
		Timeout: cfg.FetchTimeout,
		Retry: retry.Config{
			MaxRetries: cfg.FetchMaxRetries,
			BaseDelay:  cfg.FetchBaseDelay,
			MaxDelay:   cfg.FetchMaxDelay,
		},
	}, limiter.New(cfg.RateLimitMaxRequests, cfg.RateLimitWindow), m, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create github client: %w", err)
	}
	if cfg.GithubToken == "" {
		logger.Warn("GITHUB_TOKEN is not set, using unauthenticated GitHub access")
	}

	a.pipeline = pipeline.New(
		ghClient,
		cache.New(cfg.CacheTTL),
		store,
		scoring.NewScorer(cfg.PopularLanguages, nil),
		m,
		logger,
		pipeline.Options{
			Username:       cfg.GithubUsername,
			CandidateLimit: cfg.CandidateLimit,
			Concurrency:    cfg.EnrichConcurrency,
		},
	)
	return a, nil
}

func registerRuntimeCollectors(reg *prometheus.Registry) {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}
