// internal/activity/activity.go
package activity

import (
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"

	"github-portfolio/internal/model"
)

const (
	// HistogramMonths is the number of trailing calendar months in the commit histogram.
	HistogramMonths = 6
	// MaxRecentCommits bounds the recent commit list.
	MaxRecentCommits = 5
	// StreakWindowDays bounds both streak values.
	StreakWindowDays = 365

	// DateLayout formats dates shown to visitors.
	DateLayout = "2 Jan 2006"

	placeholderMessage = "Push to repository"
	placeholderRepo    = "Unknown repo"
	placeholderSHA     = "unknown"
	shortSHALength     = 7
	dayKeyLayout       = "2006-01-02"
)

// Aggregate reduces events into a ContributionSummary relative to now. Calendar
// days and months are taken in now's location. It never fails: zero events
// yield a zero-filled summary.
func Aggregate(events []model.ActivityEvent, now time.Time) model.ContributionSummary {
	var pushes []model.ActivityEvent
	summary := model.ContributionSummary{
		RecentCommits: []model.RecentCommit{},
	}

	for _, e := range events {
		switch e.Type {
		case model.EventPush:
			pushes = append(pushes, e)
		case model.EventPullRequest:
			summary.PullRequests++
		case model.EventIssues:
			summary.Issues++
		}
	}
	summary.TotalContributions = len(pushes) + summary.PullRequests + summary.Issues

	sort.SliceStable(pushes, func(i, j int) bool {
		return pushes[i].CreatedAt.After(pushes[j].CreatedAt)
	})

	summary.CommitsByMonth = monthlyHistogram(pushes, now)
	summary.CurrentStreak, summary.LongestStreak = streaks(pushes, now)
	summary.AverageMonthlyCommits = monthlyMean(summary.CommitsByMonth)

	for i := 0; i < len(pushes) && i < MaxRecentCommits; i++ {
		summary.RecentCommits = append(summary.RecentCommits, recentCommit(pushes[i], now.Location()))
	}
	return summary
}

func monthlyHistogram(pushes []model.ActivityEvent, now time.Time) []model.MonthlyCommits {
	loc := now.Location()
	buckets := make([]model.MonthlyCommits, 0, HistogramMonths)
	for i := HistogramMonths - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, loc)
		commits := 0
		for _, e := range pushes {
			t := e.CreatedAt.In(loc)
			if t.Year() == start.Year() && t.Month() == start.Month() {
				commits += len(e.Commits)
			}
		}
		buckets = append(buckets, model.MonthlyCommits{Month: start.Format("Jan"), Commits: commits})
	}
	return buckets
}

// streaks walks back from today over the streak window. current counts the run
// that starts today; longest is the largest run seen anywhere in the window.
func streaks(pushes []model.ActivityEvent, now time.Time) (current, longest int) {
	loc := now.Location()
	active := make(map[string]struct{}, len(pushes))
	for _, e := range pushes {
		active[e.CreatedAt.In(loc).Format(dayKeyLayout)] = struct{}{}
	}
	if len(active) == 0 {
		return 0, 0
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	run := 0
	inCurrent := true
	for i := 0; i < StreakWindowDays; i++ {
		day := today.AddDate(0, 0, -i).Format(dayKeyLayout)
		if _, ok := active[day]; ok {
			run++
			if inCurrent {
				current++
			}
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
		inCurrent = false
	}
	return current, longest
}

func monthlyMean(buckets []model.MonthlyCommits) float64 {
	data := make(stats.Float64Data, 0, len(buckets))
	for _, b := range buckets {
		data = append(data, float64(b.Commits))
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return 0
	}
	rounded, err := stats.Round(mean, 1)
	if err != nil {
		return mean
	}
	return rounded
}

func recentCommit(e model.ActivityEvent, loc *time.Location) model.RecentCommit {
	rc := model.RecentCommit{
		Message: placeholderMessage,
		Repo:    shortRepoName(e.RepoName),
		Date:    e.CreatedAt.In(loc).Format(DateLayout),
		SHA:     placeholderSHA,
	}
	if len(e.Commits) == 0 {
		return rc
	}

	first := e.Commits[0]
	if msg := firstLine(first.Message); msg != "" {
		rc.Message = msg
	}
	if first.SHA != "" {
		rc.SHA = first.SHA
		if len(rc.SHA) > shortSHALength {
			rc.SHA = rc.SHA[:shortSHALength]
		}
	}
	return rc
}

func shortRepoName(full string) string {
	_, name, found := strings.Cut(full, "/")
	if !found || name == "" {
		return placeholderRepo
	}
	return name
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
