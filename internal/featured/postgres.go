// internal/featured/postgres.go
package featured

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github-portfolio/internal/model"
)

const (
	loadFeaturedConfig = `SELECT projects, last_updated FROM featured_config WHERE id = 1`

	upsertFeaturedConfig = `INSERT INTO featured_config (id, projects, last_updated)
VALUES (1, $1, $2)
ON CONFLICT (id) DO UPDATE SET projects = EXCLUDED.projects, last_updated = EXCLUDED.last_updated`
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the override list in the single-row featured_config table.
type PostgresStore struct {
	db  DBTX
	now func() time.Time
}

func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

func (s *PostgresStore) Load(ctx context.Context) (model.FeaturedConfig, error) {
	var cfg model.FeaturedConfig
	err := s.db.QueryRow(ctx, loadFeaturedConfig).Scan(&cfg.FeaturedProjects, &cfg.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.DefaultFeaturedConfig(s.now()), nil
	}
	if err != nil {
		return model.FeaturedConfig{}, fmt.Errorf("load featured config: %w", err)
	}
	if cfg.FeaturedProjects == nil {
		cfg.FeaturedProjects = []string{}
	}
	return cfg, nil
}

func (s *PostgresStore) Save(ctx context.Context, names []string) (model.FeaturedConfig, error) {
	names, err := Normalize(names)
	if err != nil {
		return model.FeaturedConfig{}, err
	}
	cfg := model.FeaturedConfig{FeaturedProjects: names, LastUpdated: s.now().UTC()}

	if _, err := s.db.Exec(ctx, upsertFeaturedConfig, cfg.FeaturedProjects, cfg.LastUpdated); err != nil {
		return model.FeaturedConfig{}, fmt.Errorf("save featured config: %w", err)
	}
	return cfg, nil
}
