// cmd/service/commands.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github-portfolio/internal/api"
	"github-portfolio/internal/auth"
	"github-portfolio/internal/config"
	"github-portfolio/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// cli carries state shared by every subcommand once the root has loaded config.
type cli struct {
	logger        *slog.Logger
	logLevel      *slog.LevelVar
	cfg           *config.Config
	migrationsDir string
}

func newRootCmd(logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	c := &cli{logger: logger, logLevel: logLevel}

	root := &cobra.Command{
		Use:   "portfolio",
		Short: "Serves GitHub projects and activity for a portfolio site.",
		Long: `portfolio fetches a user's public repositories and events from GitHub,
scores and enriches them, and serves the result over HTTP. The one-shot
commands print the same datasets as JSON.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			setLogLevel(cfg.LogLevel, c.logLevel)
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				c.logLevel.Set(slog.LevelDebug)
			}
			c.cfg = cfg
			c.logger.Debug("Configuration loaded successfully")
			return nil
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&c.migrationsDir, "migrations", "migrations", "Directory holding the Postgres migrations")

	root.AddCommand(c.serveCmd(), c.projectsCmd(), c.activityCmd(), c.migrateCmd())
	return root
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	registerRuntimeCollectors(reg)

	app, err := buildApp(ctx, c.cfg, c.migrationsDir, metrics.New(reg), c.logger)
	if err != nil {
		return err
	}
	defer app.Close()

	authenticator, err := auth.New(c.cfg.AdminPassword, c.cfg.JWTSecret, c.cfg.CookieSecure)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}
	if c.cfg.AdminPassword == "" {
		c.logger.Warn("ADMIN_PASSWORD is not set, admin login is disabled")
	}
	if c.cfg.JWTSecret == "" {
		c.logger.Warn("JWT_SECRET is not set, sessions will not survive a restart")
	}

	srv := &http.Server{
		Addr:              c.cfg.HTTPAddr,
		Handler:           api.NewRouter(app.pipeline, authenticator, metrics.Handler(reg), c.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("HTTP server listening", "addr", c.cfg.HTTPAddr, "username", c.cfg.GithubUsername)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	c.logger.Info("Shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	c.logger.Info("Server stopped")
	return nil
}

func (c *cli) projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "Fetch the project list once and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd.Context(), c.cfg, c.migrationsDir, nil, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			list := app.pipeline.ListProjects(cmd.Context())
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"projects": list.Projects,
				"count":    len(list.Projects),
				"source":   list.Source,
			})
		},
	}
}

func (c *cli) activityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Fetch the contribution summary once and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := buildApp(cmd.Context(), c.cfg, c.migrationsDir, nil, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			report := app.pipeline.ListActivity(cmd.Context())
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"activity": report.Summary,
				"source":   report.Source,
			})
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres migrations for the featured-projects table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.DBURL == "" {
				return errors.New("DB_URL is required to run migrations")
			}
			if err := runMigrations(c.migrationsDir, c.cfg.DBURL); err != nil {
				return fmt.Errorf("failed to run database migrations: %w", err)
			}
			c.logger.Info("Database migrations applied successfully")
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
