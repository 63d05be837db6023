package tracking

import (
	"context"
	"sort"
	"time"
)

// Status labels used on the project board.
const (
	StatusDailyScrum       = "Daily-Scrum"
	StatusWeeklyPlanning   = "Weekly-Planning"
	StatusWeeklyRetrospect = "Weekly-Retrospect"
)

// Item is one row of the project board.
type Item struct {
	ID          string
	CreatedAt   time.Time
	FieldValues []FieldValue
	Issue       *Issue
}

type Issue struct {
	Title     string
	URL       string
	Body      string
	Assignees []string
}

// Title returns the issue title, or "" when the item carries no issue.
func (it Item) Title() string {
	if it.Issue == nil {
		return ""
	}
	return it.Issue.Title
}

type SubIssue struct {
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Assignees []string `json:"assignees"`
}

// UserMap maps a GitHub login to the chat user id used in mentions.
type UserMap map[string]string

// Users returns the configured logins in sorted order.
func (m UserMap) Users() []string {
	users := make([]string, 0, len(m))
	for u := range m {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

type Submission struct {
	User      string `json:"user"`
	Submitted bool   `json:"submitted"`
}

// SubmissionResult keeps the order of the expected users it was built from.
type SubmissionResult []Submission

func (r SubmissionResult) Map() map[string]bool {
	m := make(map[string]bool, len(r))
	for _, s := range r {
		m[s.User] = s.Submitted
	}
	return m
}

// Unsubmitted counts the users that have not filed their issue.
func (r SubmissionResult) Unsubmitted() int {
	n := 0
	for _, s := range r {
		if !s.Submitted {
			n++
		}
	}
	return n
}

// ItemSource is anything that can list the items of a project board.
type ItemSource interface {
	Name() string
	FetchItems(ctx context.Context) ([]Item, error)
	HealthCheck(ctx context.Context) error
}
