// internal/featured/file.go
package featured

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github-portfolio/internal/model"
)

// FileStore keeps the override list in a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

func (s *FileStore) Load(_ context.Context) (model.FeaturedConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return model.DefaultFeaturedConfig(s.now()), nil
	}
	if err != nil {
		return model.FeaturedConfig{}, fmt.Errorf("read featured config: %w", err)
	}

	var cfg model.FeaturedConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return model.FeaturedConfig{}, fmt.Errorf("decode featured config %s: %w", s.path, err)
	}
	if cfg.FeaturedProjects == nil {
		cfg.FeaturedProjects = []string{}
	}
	return cfg, nil
}

// Save writes the list through a temporary file so readers never see a partial document.
func (s *FileStore) Save(_ context.Context, names []string) (model.FeaturedConfig, error) {
	names, err := Normalize(names)
	if err != nil {
		return model.FeaturedConfig{}, err
	}
	cfg := model.FeaturedConfig{FeaturedProjects: names, LastUpdated: s.now().UTC()}

	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return model.FeaturedConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return model.FeaturedConfig{}, fmt.Errorf("create featured config dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".featured-*.json")
	if err != nil {
		return model.FeaturedConfig{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return model.FeaturedConfig{}, fmt.Errorf("write featured config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return model.FeaturedConfig{}, fmt.Errorf("write featured config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return model.FeaturedConfig{}, fmt.Errorf("replace featured config: %w", err)
	}
	return cfg, nil
}
