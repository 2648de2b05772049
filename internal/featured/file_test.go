// internal/featured/file_test.go
package featured

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	path := filepath.Join(t.TempDir(), "data", "featured-projects.json")
	s := NewFileStore(path)
	s.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return s, path
}

func TestFileStore_LoadDefaultsWhenMissing(t *testing.T) {
	s, _ := newTestFileStore(t)

	cfg, err := s.Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.DefaultFeaturedProjects, cfg.FeaturedProjects)
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	s, path := newTestFileStore(t)
	ctx := context.Background()

	saved, err := s.Save(ctx, []string{"site", "bot"})
	require.NoError(t, err)
	assert.Equal(t, []string{"site", "bot"}, saved.FeaturedProjects)

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.FeaturedProjects, loaded.FeaturedProjects)
	assert.True(t, saved.LastUpdated.Equal(loaded.LastUpdated))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"featuredProjects"`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestFileStore_SaveRejectsTooMany(t *testing.T) {
	s, path := newTestFileStore(t)

	_, err := s.Save(context.Background(), []string{"a", "b", "c", "d", "e", "f", "g"})

	var tooMany *custom_errors.TooManyFeaturedError
	require.ErrorAs(t, err, &tooMany)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing is written on validation failure")
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	s, path := newTestFileStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := s.Load(context.Background())
	assert.Error(t, err)
}
