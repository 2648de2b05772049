// internal/scoring/scoring.go
package scoring

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github-portfolio/internal/model"
)

const (
	// FeaturedThreshold is the score above which a repository is featured without an override.
	FeaturedThreshold = 100
	// ExclusionThreshold drops repositories scoring at or below it from the candidate pool.
	ExclusionThreshold = -50
	// DefaultCandidateLimit caps how many repositories are enriched per run.
	DefaultCandidateLimit = 50

	maxTopics       = 6
	maxTechnologies = 8
)

// DefaultPopularLanguages earn the popularity bonus.
var DefaultPopularLanguages = []string{"TypeScript", "JavaScript", "Python", "React", "Next.js"}

var nonTechTopics = map[string]struct{}{
	"readme":        {},
	"license":       {},
	"docs":          {},
	"documentation": {},
	"portfolio":     {},
	"project":       {},
}

// Scorer ranks repositories. It is pure for a fixed clock.
type Scorer struct {
	popular map[string]struct{}
	now     func() time.Time
}

// NewScorer builds a Scorer. An empty language list uses DefaultPopularLanguages
// and a nil clock uses time.Now.
func NewScorer(popularLanguages []string, now func() time.Time) *Scorer {
	if len(popularLanguages) == 0 {
		popularLanguages = DefaultPopularLanguages
	}
	if now == nil {
		now = time.Now
	}
	popular := make(map[string]struct{}, len(popularLanguages))
	for _, lang := range popularLanguages {
		popular[lang] = struct{}{}
	}
	return &Scorer{popular: popular, now: now}
}

// Score computes the additive relevance score of repo.
func (s *Scorer) Score(repo model.RepositorySummary) int {
	score := repo.Stars * 10

	days := s.now().Sub(repo.UpdatedAt).Hours() / 24
	switch {
	case days < 30:
		score += 50
	case days < 90:
		score += 25
	}

	if utf8.RuneCountInString(repo.DescriptionText()) > 20 {
		score += 20
	}
	if len(repo.Topics) > 0 {
		score += 15
	}
	if repo.Homepage != "" {
		score += 25
	}
	if _, ok := s.popular[repo.Language]; ok && repo.Language != "" {
		score += 30
	}
	if repo.Fork && repo.Stars < 5 {
		score -= 100
	}
	return score
}

// IsFeatured reports whether repo is manually listed or scores above FeaturedThreshold.
func (s *Scorer) IsFeatured(repo model.RepositorySummary, overrides model.FeaturedConfig) bool {
	if overrides.Contains(repo.Name) {
		return true
	}
	return s.Score(repo) > FeaturedThreshold
}

// Candidate is a repository that survived filtering, with its score.
type Candidate struct {
	Repo  model.RepositorySummary
	Score int
}

// Candidates drops private and low-scoring repositories, orders the rest by score
// descending and keeps at most limit of them. A non-positive limit uses
// DefaultCandidateLimit.
func (s *Scorer) Candidates(repos []model.RepositorySummary, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}

	pool := make([]Candidate, 0, len(repos))
	for _, repo := range repos {
		if repo.Private {
			continue
		}
		score := s.Score(repo)
		if score <= ExclusionThreshold {
			continue
		}
		pool = append(pool, Candidate{Repo: repo, Score: score})
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})

	if len(pool) > limit {
		pool = pool[:limit]
	}
	return pool
}

// SortProjects puts featured projects first, then orders by stars descending.
// Equal elements keep their relative order.
func SortProjects(projects []model.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Featured != projects[j].Featured {
			return projects[i].Featured
		}
		return projects[i].Stars > projects[j].Stars
	})
}

// Technologies lists the primary language and up to six topics, deduplicated
// case-insensitively, without non-technical topics, capped at eight.
func Technologies(repo model.RepositorySummary) []string {
	raw := make([]string, 0, 1+maxTopics)
	if repo.Language != "" {
		raw = append(raw, repo.Language)
	}
	topics := repo.Topics
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}
	raw = append(raw, topics...)

	seen := make(map[string]struct{}, len(raw))
	techs := make([]string, 0, len(raw))
	for _, tech := range raw {
		lower := strings.ToLower(strings.TrimSpace(tech))
		if lower == "" {
			continue
		}
		if _, skip := nonTechTopics[lower]; skip {
			continue
		}
		if _, dup := seen[lower]; dup {
			continue
		}
		seen[lower] = struct{}{}
		techs = append(techs, tech)
		if len(techs) == maxTechnologies {
			break
		}
	}
	return techs
}
