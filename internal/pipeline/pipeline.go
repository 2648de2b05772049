// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github-portfolio/internal/activity"
	"github-portfolio/internal/cache"
	"github-portfolio/internal/description"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/featured"
	"github-portfolio/internal/metrics"
	"github-portfolio/internal/model"
	"github-portfolio/internal/scoring"
)

const (
	projectsKey = "projects"
	activityKey = "activity"

	// DefaultConcurrency is the number of README fetches run in parallel.
	DefaultConcurrency = 8
)

// Source is the upstream the pipeline reads from. *github.Client implements it.
type Source interface {
	ListRepositories(ctx context.Context, user string) ([]model.RepositorySummary, error)
	GetReadme(ctx context.Context, owner, repo string) (string, error)
	ListEvents(ctx context.Context, user string) ([]model.ActivityEvent, error)
}

// Options tunes a Pipeline.
type Options struct {
	Username       string
	CandidateLimit int
	Concurrency    int
}

// Pipeline orchestrates fetching, scoring, enrichment and caching of the
// portfolio datasets. Its List methods never fail: they degrade to stale or
// static data instead.
type Pipeline struct {
	source   Source
	cache    *cache.Store
	featured featured.Store
	scorer   *scoring.Scorer
	metrics  *metrics.Metrics
	logger   *slog.Logger

	username       string
	candidateLimit int
	concurrency    int
	now            func() time.Time
}

// New creates a new Pipeline instance.
func New(source Source, store *cache.Store, featuredStore featured.Store, scorer *scoring.Scorer, m *metrics.Metrics, logger *slog.Logger, opts Options) *Pipeline {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = scoring.DefaultCandidateLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	return &Pipeline{
		source:         source,
		cache:          store,
		featured:       featuredStore,
		scorer:         scorer,
		metrics:        m,
		logger:         logger,
		username:       opts.Username,
		candidateLimit: opts.CandidateLimit,
		concurrency:    opts.Concurrency,
		now:            time.Now,
	}
}

// ListProjects returns the ordered project list.
func (p *Pipeline) ListProjects(ctx context.Context) model.ProjectList {
	defer p.metrics.ObserveDuration(projectsKey, time.Now())
	logger := p.logger.With("dataset", projectsKey)

	if p.username == "" {
		logger.Warn("GitHub username not configured, serving fallback projects", "error", custom_errors.ErrMissingUsername)
		p.metrics.Fallback(projectsKey)
		return model.ProjectList{Projects: model.FallbackProjects(), Source: model.SourceFallback}
	}

	projects, status, err := cache.Fetch(ctx, p.cache, projectsKey, p.buildProjects)
	if err != nil {
		logger.Error("Failed to fetch projects, serving fallback", "error", err)
		p.metrics.CacheLookup(projectsKey, "error")
		p.metrics.Fallback(projectsKey)
		return model.ProjectList{Projects: model.FallbackProjects(), Source: model.SourceFallback}
	}
	p.metrics.CacheLookup(projectsKey, string(status))
	if status == cache.StatusStale {
		logger.Warn("Upstream failed, serving stale projects")
	}

	out := make([]model.Project, len(projects))
	copy(out, projects)
	return model.ProjectList{Projects: out, Source: sourceOf(status)}
}

// ListActivity returns the contribution summary.
func (p *Pipeline) ListActivity(ctx context.Context) model.ActivityReport {
	defer p.metrics.ObserveDuration(activityKey, time.Now())
	logger := p.logger.With("dataset", activityKey)

	if p.username == "" {
		logger.Warn("GitHub username not configured, serving empty activity", "error", custom_errors.ErrMissingUsername)
		p.metrics.Fallback(activityKey)
		return model.ActivityReport{Summary: model.EmptyContributionSummary(), Source: model.SourceFallback}
	}

	summary, status, err := cache.Fetch(ctx, p.cache, activityKey, p.buildActivity)
	if err != nil {
		logger.Error("Failed to fetch activity, serving empty summary", "error", err)
		p.metrics.CacheLookup(activityKey, "error")
		p.metrics.Fallback(activityKey)
		return model.ActivityReport{Summary: model.EmptyContributionSummary(), Source: model.SourceFallback}
	}
	p.metrics.CacheLookup(activityKey, string(status))
	if status == cache.StatusStale {
		logger.Warn("Upstream failed, serving stale activity")
	}
	return model.ActivityReport{Summary: summary, Source: sourceOf(status)}
}

// FeaturedConfig returns the current override list, or the defaults when the
// store cannot be read.
func (p *Pipeline) FeaturedConfig(ctx context.Context) model.FeaturedConfig {
	cfg, err := p.featured.Load(ctx)
	if err != nil {
		p.logger.Warn("Failed to load featured config, using defaults", "error", err)
		return model.DefaultFeaturedConfig(p.now())
	}
	return cfg
}

// UpdateFeatured persists a new override list and drops the cached projects so
// the next listing reflects it.
func (p *Pipeline) UpdateFeatured(ctx context.Context, names []string) (model.FeaturedConfig, error) {
	cfg, err := p.featured.Save(ctx, names)
	if err != nil {
		return model.FeaturedConfig{}, err
	}
	p.InvalidateProjects()
	p.logger.Info("Featured projects updated", "count", len(cfg.FeaturedProjects))
	return cfg, nil
}

// InvalidateProjects drops the cached project list.
func (p *Pipeline) InvalidateProjects() {
	p.cache.Invalidate(projectsKey)
}

func (p *Pipeline) buildProjects(ctx context.Context) ([]model.Project, error) {
	repos, err := p.source.ListRepositories(ctx, p.username)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", custom_errors.ErrUpstreamUnavailable, err)
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("%w: no repositories returned for %s", custom_errors.ErrUpstreamUnavailable, p.username)
	}

	overrides := p.FeaturedConfig(ctx)
	candidates := p.scorer.Candidates(repos, p.candidateLimit)
	p.logger.Info("Enriching candidate repositories", "fetched", len(repos), "candidates", len(candidates), "concurrency", p.concurrency)

	projects := make([]model.Project, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, c := range candidates {
		g.Go(func() error {
			projects[i] = p.buildProject(gctx, c.Repo, overrides)
			return nil
		})
	}
	_ = g.Wait()

	// An interrupted batch holds metadata-only descriptions; it must not be cached.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("readme enrichment interrupted: %w", err)
	}

	scoring.SortProjects(projects)
	p.logger.Info("Projects assembled", "count", len(projects))
	return projects, nil
}

// buildProject enriches one repository. A failed README fetch keeps the
// metadata description.
func (p *Pipeline) buildProject(ctx context.Context, repo model.RepositorySummary, overrides model.FeaturedConfig) model.Project {
	logger := p.logger.With("owner", repo.Owner, "repo", repo.Name)

	readme, err := p.source.GetReadme(ctx, repo.Owner, repo.Name)
	if err != nil {
		var nf *custom_errors.NotFoundError
		if errors.As(err, &nf) {
			logger.Debug("Repository has no README")
		} else {
			logger.Warn("README enrichment failed", "error", err)
		}
		readme = ""
	}

	return model.Project{
		ID:           strconv.FormatInt(repo.ID, 10),
		Name:         repo.Name,
		Description:  description.Extract(repo.DescriptionText(), readme, repo.Language, repo.Owner),
		Technologies: scoring.Technologies(repo),
		GitHubURL:    repo.HTMLURL,
		DemoURL:      repo.Homepage,
		Stars:        repo.Stars,
		LastUpdated:  repo.UpdatedAt.In(p.now().Location()).Format(activity.DateLayout),
		Featured:     p.scorer.IsFeatured(repo, overrides),
	}
}

func (p *Pipeline) buildActivity(ctx context.Context) (model.ContributionSummary, error) {
	events, err := p.source.ListEvents(ctx, p.username)
	if err != nil {
		return model.ContributionSummary{}, fmt.Errorf("%w: %w", custom_errors.ErrUpstreamUnavailable, err)
	}
	summary := activity.Aggregate(events, p.now())
	p.logger.Info("Activity aggregated", "events", len(events), "total", summary.TotalContributions)
	return summary, nil
}

func sourceOf(status cache.Status) model.Source {
	switch status {
	case cache.StatusHit:
		return model.SourceCache
	case cache.StatusStale:
		return model.SourceStale
	default:
		return model.SourceLive
	}
}
