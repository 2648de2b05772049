// internal/featured/store.go
package featured

import (
	"context"
	"strings"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

// Store persists the manually curated featured list.
// Load returns the default list when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (model.FeaturedConfig, error)
	Save(ctx context.Context, names []string) (model.FeaturedConfig, error)
}

// Normalize validates an override list before it is saved. Names are trimmed
// and duplicates dropped, keeping the first occurrence.
func Normalize(names []string) ([]string, error) {
	if len(names) > custom_errors.MaxFeaturedProjects {
		return nil, &custom_errors.TooManyFeaturedError{Count: len(names)}
	}

	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &custom_errors.InvalidFeaturedNameError{Index: i}
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}
