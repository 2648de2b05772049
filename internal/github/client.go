// internal/github/client.go
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/limiter"
	"github-portfolio/internal/metrics"
	"github-portfolio/internal/model"
	"github-portfolio/internal/retry"
)

const (
	opListRepositories = "list_repositories"
	opGetReadme        = "get_readme"
	opListEvents       = "list_events"

	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 10 * time.Second

	perPage  = 100
	maxPages = 5
)

// Config controls how the Client reaches GitHub.
type Config struct {
	Token   string
	BaseURL string
	Timeout time.Duration
	Retry   retry.Config
}

// Client is a wrapper around the go-github client. Every call goes through the
// shared rate limiter and the retry policy.
type Client struct {
	gh      *github.Client
	limiter *limiter.RateLimiter
	retry   retry.Config
	timeout time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewClient creates and configures a new Client instance.
// When a token is set it is sent as a bearer token on every request.
func NewClient(cfg Config, lim *limiter.RateLimiter, m *metrics.Metrics, logger *slog.Logger) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if lim == nil {
		lim = limiter.New(limiter.DefaultMaxRequests, limiter.DefaultWindow)
	}
	if cfg.Retry == (retry.Config{}) {
		cfg.Retry = retry.DefaultConfig()
	}

	waiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(cfg.Retry.MaxDelay, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}

	var transport http.RoundTripper = waiter
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Base:   waiter,
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		}
	}

	gh := github.NewClient(&http.Client{Transport: transport})
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url %q: %w", cfg.BaseURL, err)
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:      gh,
		limiter: lim,
		retry:   cfg.Retry,
		timeout: cfg.Timeout,
		metrics: m,
		logger:  logger,
	}, nil
}

// ListRepositories fetches the public repositories of user, most recently updated first.
// Entries without an ID or a name are dropped.
func (c *Client) ListRepositories(ctx context.Context, user string) ([]model.RepositorySummary, error) {
	var all []model.RepositorySummary

	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for page := 0; page < maxPages; page++ {
		c.logger.Debug("Fetching repositories page", "user", user, "page", opts.Page)

		var repos []*github.Repository
		var resp *github.Response
		err := c.do(ctx, opListRepositories, func(ctx context.Context) (*github.Response, error) {
			var err error
			repos, resp, err = c.gh.Repositories.ListByUser(ctx, user, opts)
			return resp, err
		})
		if err != nil {
			return nil, err
		}

		for _, r := range repos {
			if summary, ok := toRepositorySummary(r); ok {
				all = append(all, summary)
			}
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// GetReadme returns the decoded README of owner/repo. A missing README yields
// a NotFoundError.
func (c *Client) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	var content *github.RepositoryContent
	err := c.do(ctx, opGetReadme, func(ctx context.Context) (*github.Response, error) {
		var (
			resp *github.Response
			err  error
		)
		content, resp, err = c.gh.Repositories.GetReadme(ctx, owner, repo, nil)
		return resp, err
	})
	if err != nil {
		return "", err
	}

	text, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("%s: failed to decode readme of %s/%s: %w", opGetReadme, owner, repo, err)
	}
	return text, nil
}

// ListEvents fetches the most recent public events performed by user.
// Events without a timestamp are dropped.
func (c *Client) ListEvents(ctx context.Context, user string) ([]model.ActivityEvent, error) {
	var events []*github.Event
	err := c.do(ctx, opListEvents, func(ctx context.Context) (*github.Response, error) {
		var (
			resp *github.Response
			err  error
		)
		events, resp, err = c.gh.Activity.ListEventsPerformedByUser(ctx, user, true, &github.ListOptions{PerPage: perPage})
		return resp, err
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.ActivityEvent, 0, len(events))
	for _, e := range events {
		if ev, ok := toActivityEvent(e); ok {
			out = append(out, ev)
		}
	}
	return out, nil
}

// do runs one logical request: every attempt waits for the rate limiter and is
// bounded by the per-attempt timeout.
func (c *Client) do(ctx context.Context, op string, call func(ctx context.Context) (*github.Response, error)) error {
	attempt := func() error {
		if err := c.limiter.Acquire(ctx); err != nil {
			return err
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := call(attemptCtx)
		err = classify(op, resp, err)
		c.metrics.UpstreamRequest(op, outcome(err))
		return err
	}

	return retry.Do(ctx, c.retry, attempt, func(n int, err error, next time.Duration) {
		c.logger.Warn("Retrying GitHub request", "operation", op, "attempt", n+1, "error", err, "backoff", next)
	})
}

// classify turns a go-github error into one of the typed errors of this service.
func classify(op string, resp *github.Response, err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &custom_errors.RateLimitError{Op: op, Reset: rateErr.Rate.Reset.Time, Err: err}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		limitErr := &custom_errors.RateLimitError{Op: op, Err: err}
		if abuseErr.RetryAfter != nil {
			limitErr.Reset = time.Now().Add(*abuseErr.RetryAfter)
		}
		return limitErr
	}

	status := 0
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		status = respErr.Response.StatusCode
	} else if resp != nil && resp.Response != nil && resp.StatusCode >= 400 {
		status = resp.StatusCode
	}

	switch {
	case status == http.StatusNotFound:
		return &custom_errors.NotFoundError{Op: op}
	case status >= 500:
		return &custom_errors.ServerError{Op: op, StatusCode: status, Err: err}
	case status == http.StatusTooManyRequests:
		return &custom_errors.RateLimitError{Op: op, Err: err}
	case status >= 400:
		return &custom_errors.ClientError{Op: op, StatusCode: status, Err: err}
	default:
		return &custom_errors.NetworkError{Op: op, Err: err}
	}
}

func outcome(err error) string {
	var (
		rateErr     *custom_errors.RateLimitError
		serverErr   *custom_errors.ServerError
		clientErr   *custom_errors.ClientError
		notFoundErr *custom_errors.NotFoundError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rateErr):
		return "rate_limited"
	case errors.As(err, &serverErr):
		return "server_error"
	case errors.As(err, &clientErr):
		return "client_error"
	case errors.As(err, &notFoundErr):
		return "not_found"
	default:
		return "network_error"
	}
}

// toRepositorySummary translates a github.Repository object to our internal model.
func toRepositorySummary(r *github.Repository) (model.RepositorySummary, bool) {
	if r == nil || r.GetID() == 0 || r.GetName() == "" {
		return model.RepositorySummary{}, false
	}
	return model.RepositorySummary{
		ID:          r.GetID(),
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.Description,
		Language:    r.GetLanguage(),
		Topics:      r.Topics,
		Stars:       r.GetStargazersCount(),
		Homepage:    r.GetHomepage(),
		HTMLURL:     r.GetHTMLURL(),
		Fork:        r.GetFork(),
		Private:     r.GetPrivate(),
		UpdatedAt:   r.GetUpdatedAt().Time,
	}, true
}

// toActivityEvent translates a github.Event to our internal model.
func toActivityEvent(e *github.Event) (model.ActivityEvent, bool) {
	if e == nil || e.CreatedAt == nil || e.CreatedAt.Time.IsZero() {
		return model.ActivityEvent{}, false
	}

	ev := model.ActivityEvent{
		ID:        e.GetID(),
		Type:      model.EventTypeFromGitHub(e.GetType()),
		RepoName:  e.GetRepo().GetName(),
		CreatedAt: e.GetCreatedAt().Time,
	}
	if ev.Type != model.EventPush {
		return ev, true
	}

	payload, err := e.ParsePayload()
	if err != nil {
		return ev, true
	}
	if push, ok := payload.(*github.PushEvent); ok {
		for _, commit := range push.Commits {
			sha := commit.GetSHA()
			if sha == "" {
				sha = commit.GetID()
			}
			ev.Commits = append(ev.Commits, model.PushCommit{SHA: sha, Message: commit.GetMessage()})
		}
	}
	return ev, true
}
