package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tamnara/scrumbot/internal/reminder"
	"github.com/tamnara/scrumbot/internal/tracking"
)

type Generator struct {
	Source tracking.ItemSource
	Users  tracking.UserMap
	Logger *slog.Logger
	Now    func() time.Time
}

func NewGenerator(source tracking.ItemSource, users tracking.UserMap, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{Source: source, Users: users, Logger: logger, Now: time.Now}
}

// Generate fetches the board and reconciles it for r on the day of now.
// Weekly kinds count issues with r's Status dated today; the daily scrum
// counts the sub-issues under today's parent issue.
func (g *Generator) Generate(ctx context.Context, r reminder.Reminder, now time.Time) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	items, err := g.Source.FetchItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items from %s: %w", g.Source.Name(), err)
	}

	today := tracking.Today(now)
	users := g.Users.Users()

	rep := &Report{
		Kind:        r.Kind,
		Date:        today,
		GeneratedAt: g.Now(),
		Source:      g.Source.Name(),
		Fetched:     len(items),
	}

	if r.Kind == reminder.DailyScrum {
		rep.Issues = tracking.DailyScrumSubIssues(items, today)
		rep.Result = tracking.CheckSubIssueAssignees(rep.Issues, users)
	} else {
		targets := tracking.FilterTargetIssues(items, r.Status)
		rep.Issues = make([]tracking.SubIssue, 0, len(targets))
		for _, item := range targets {
			rep.Issues = append(rep.Issues, tracking.SubIssue{
				Title:     item.Issue.Title,
				URL:       item.Issue.URL,
				Assignees: item.Issue.Assignees,
			})
		}
		rep.Result = tracking.CheckIssueCreatedByUsers(targets, users, today)
	}

	rep.Mentions = tracking.UnsubmittedMentionIDs(rep.Result, g.Users)
	rep.Rows = make([]Row, 0, len(rep.Result))
	for _, s := range rep.Result {
		rep.Rows = append(rep.Rows, Row{User: s.User, Submitted: s.Submitted, MentionID: g.Users[s.User]})
	}

	g.Logger.Debug("report generated",
		"kind", r.Kind,
		"date", today,
		"fetched", len(items),
		"issues", len(rep.Issues),
	)
	return rep, nil
}

// Statistics generates summary stats
func (g *Generator) Statistics(rep *Report) map[string]any {
	stats := make(map[string]any)

	unsubmitted := rep.Result.Unsubmitted()
	stats["total"] = len(rep.Result)
	stats["submitted"] = len(rep.Result) - unsubmitted
	stats["unsubmitted"] = unsubmitted
	stats["issues"] = len(rep.Issues)
	stats["fetched"] = rep.Fetched
	return stats
}
