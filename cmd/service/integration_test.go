//go:build integration

// cmd/service/integration_test.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github-portfolio/internal/config"
	"github-portfolio/internal/featured"
	"github-portfolio/internal/model"
)

const migrationsDir = "../../migrations"

func setupTestDatabase(ctx context.Context, t *testing.T) string {
	t.Helper()

	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(pgContainer))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return connStr
}

func TestPostgresStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	connStr := setupTestDatabase(ctx, t)
	require.NoError(t, runMigrations(migrationsDir, connStr))
	// A second run is a no-op.
	require.NoError(t, runMigrations(migrationsDir, connStr))

	dbpool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer dbpool.Close()

	store := featured.NewPostgresStore(dbpool)

	cfg, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultFeaturedProjects, cfg.FeaturedProjects, "empty table yields the defaults")

	saved, err := store.Save(ctx, []string{" site ", "tool", "site"})
	require.NoError(t, err)
	assert.Equal(t, []string{"site", "tool"}, saved.FeaturedProjects)

	cfg, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"site", "tool"}, cfg.FeaturedProjects)
	assert.WithinDuration(t, saved.LastUpdated, cfg.LastUpdated, time.Millisecond)

	_, err = store.Save(ctx, []string{"a", "b", "c", "d", "e", "f", "g"})
	require.Error(t, err)
	cfg, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"site", "tool"}, cfg.FeaturedProjects, "rejected save leaves the row untouched")
}

func TestPipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	connStr := setupTestDatabase(ctx, t)

	// Mock GitHub API server
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/octo/repos":
			fmt.Fprintln(w, `[
				{"id": 1, "name": "site", "owner": {"login": "octo"}, "language": "TypeScript", "stargazers_count": 15,
				 "html_url": "https://github.com/octo/site", "updated_at": "2024-06-05T10:00:00Z"},
				{"id": 2, "name": "tool", "owner": {"login": "octo"}, "language": "Go", "description": "A small CLI",
				 "html_url": "https://github.com/octo/tool", "updated_at": "2024-05-01T10:00:00Z"}
			]`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintln(w, `{"message": "Not Found"}`)
		}
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	cfg := &config.Config{
		GithubUsername:       "octo",
		GithubAPIURL:         server.URL,
		DBURL:                connStr,
		CacheTTL:             time.Minute,
		RateLimitMaxRequests: 100,
		RateLimitWindow:      time.Minute,
		FetchMaxRetries:      1,
		FetchBaseDelay:       time.Millisecond,
		FetchMaxDelay:        10 * time.Millisecond,
		FetchTimeout:         time.Second,
		CandidateLimit:       50,
		EnrichConcurrency:    4,
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

	app, err := buildApp(ctx, cfg, migrationsDir, nil, logger)
	require.NoError(t, err)
	defer app.Close()

	list := app.pipeline.ListProjects(ctx)
	require.Equal(t, model.SourceLive, list.Source)
	require.Len(t, list.Projects, 2)
	assert.Equal(t, "site", list.Projects[0].Name)
	assert.False(t, list.Projects[1].Featured)

	_, err = app.pipeline.UpdateFeatured(ctx, []string{"tool"})
	require.NoError(t, err)

	list = app.pipeline.ListProjects(ctx)
	assert.Equal(t, model.SourceLive, list.Source, "saving overrides drops the cached list")
	var tool model.Project
	for _, p := range list.Projects {
		if p.Name == "tool" {
			tool = p
		}
	}
	assert.True(t, tool.Featured)
	assert.Equal(t, "A small CLI", tool.Description)
}
