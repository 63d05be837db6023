package report

import (
	"time"

	"github.com/tamnara/scrumbot/internal/reminder"
	"github.com/tamnara/scrumbot/internal/tracking"
)

// Report is one reconciliation pass: who was expected, who filed, and the
// issues that were counted.
type Report struct {
	Kind        reminder.Kind             `json:"kind"`
	Date        string                    `json:"date"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Source      string                    `json:"source"`
	Fetched     int                       `json:"fetched"`
	Rows        []Row                     `json:"rows"`
	Mentions    []string                  `json:"mentions"`
	Issues      []tracking.SubIssue       `json:"issues"`
	Result      tracking.SubmissionResult `json:"-"`
}

type Row struct {
	User      string `json:"user"`
	Submitted bool   `json:"submitted"`
	MentionID string `json:"mention_id,omitempty"`
}

// Unsubmitted returns the rows of users that have not filed.
func (r *Report) Unsubmitted() []Row {
	var out []Row
	for _, row := range r.Rows {
		if !row.Submitted {
			out = append(out, row)
		}
	}
	return out
}
