// internal/model/models.go
package model

import "time"

// RepositorySummary is the validated snapshot of a GitHub repository.
type RepositorySummary struct {
	ID          int64
	Owner       string
	Name        string
	FullName    string
	Description *string
	Language    string
	Topics      []string
	Stars       int
	Homepage    string
	HTMLURL     string
	Fork        bool
	Private     bool
	UpdatedAt   time.Time
}

// DescriptionText returns the metadata description or "" when it is null.
func (r RepositorySummary) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// EventType is the coarse classification of a GitHub activity event.
type EventType string

const (
	EventPush        EventType = "push"
	EventPullRequest EventType = "pull_request"
	EventIssues      EventType = "issues"
	EventOther       EventType = "other"
)

// EventTypeFromGitHub maps a GitHub event type name (e.g. "PushEvent") to an EventType.
func EventTypeFromGitHub(name string) EventType {
	switch name {
	case "PushEvent":
		return EventPush
	case "PullRequestEvent":
		return EventPullRequest
	case "IssuesEvent":
		return EventIssues
	default:
		return EventOther
	}
}

// PushCommit is a single commit carried in a push event payload.
type PushCommit struct {
	SHA     string
	Message string
}

// ActivityEvent is a validated public event performed by the configured user.
type ActivityEvent struct {
	ID        string
	Type      EventType
	RepoName  string // owner/name
	CreatedAt time.Time
	Commits   []PushCommit
}

// Project is a repository prepared for display.
type Project struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Technologies        []string `json:"technologies"`
	GitHubURL           string   `json:"githubUrl"`
	DemoURL             string   `json:"demoUrl,omitempty"`
	Stars               int      `json:"stars"`
	LastUpdated         string   `json:"lastUpdated"`
	Featured            bool     `json:"featured"`
	RelatedCertificates []string `json:"relatedCertificates,omitempty"`
}

// MonthlyCommits is one bucket of the commit histogram.
type MonthlyCommits struct {
	Month   string `json:"month"`
	Commits int    `json:"commits"`
}

// RecentCommit describes the first commit of a recent push.
type RecentCommit struct {
	Message string `json:"message"`
	Repo    string `json:"repo"`
	Date    string `json:"date"`
	SHA     string `json:"sha"`
}

// ContributionSummary is the aggregated view of a user's recent activity.
type ContributionSummary struct {
	TotalContributions    int              `json:"totalContributions"`
	CurrentStreak         int              `json:"currentStreak"`
	LongestStreak         int              `json:"longestStreak"`
	PullRequests          int              `json:"pullRequests"`
	Issues                int              `json:"issues"`
	CommitsByMonth        []MonthlyCommits `json:"commitsByMonth"`
	RecentCommits         []RecentCommit   `json:"recentCommits"`
	AverageMonthlyCommits float64          `json:"averageMonthlyCommits"`
}

// FeaturedConfig is the manually curated list of featured repository names.
type FeaturedConfig struct {
	FeaturedProjects []string  `json:"featuredProjects"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

// Contains reports whether name is manually listed.
func (c FeaturedConfig) Contains(name string) bool {
	for _, n := range c.FeaturedProjects {
		if n == name {
			return true
		}
	}
	return false
}

// Source tells callers where a dataset came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceCache    Source = "cache"
	SourceStale    Source = "stale"
	SourceFallback Source = "fallback"
)

// ProjectList is the result of listing projects.
type ProjectList struct {
	Projects []Project
	Source   Source
}

// ActivityReport is the result of listing contribution activity.
type ActivityReport struct {
	Summary ContributionSummary
	Source  Source
}
