package reminder

import (
	"fmt"
	"time"

	"github.com/tamnara/scrumbot/internal/chat"
	"github.com/tamnara/scrumbot/internal/tracking"
)

type Kind string

const (
	DailyScrum       Kind = "daily-scrum"
	WeeklyPlanning   Kind = "weekly-planning"
	WeeklyRetrospect Kind = "weekly-retrospect"
)

// ParseKind accepts the kind names and the short CLI aliases.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "daily", string(DailyScrum):
		return DailyScrum, nil
	case "weekly-plan", "plan", string(WeeklyPlanning):
		return WeeklyPlanning, nil
	case "weekly-retro", "retro", string(WeeklyRetrospect):
		return WeeklyRetrospect, nil
	}
	return "", fmt.Errorf("unknown reminder kind %q (want daily, weekly-plan or weekly-retro)", s)
}

const (
	ColorAnnounce = 0x00BFFF
	ColorFollowUp = 0xE74C3C
)

// Reminder is one recurring check-in: an announcement to everyone and
// follow-ups mentioning whoever has not filed the issue yet.
type Reminder struct {
	Kind   Kind
	Status string

	Announce Window
	FollowUp Window

	AnnounceTitle string
	AnnounceText  string
	FollowUpTitle string
	FollowUpText  string
	LinkLabel     string
	Link          string
}

// Links are the board views the reminders point at.
type Links struct {
	DailyScrum       string
	WeeklyPlanning   string
	WeeklyRetrospect string
}

// Defaults returns the team's reminder set.
func Defaults(links Links) []Reminder {
	return []Reminder{
		{
			Kind:          DailyScrum,
			Status:        tracking.StatusDailyScrum,
			Announce:      At(9, 5),
			// Follow-ups start once the 09:10 deadline has passed.
			FollowUp:      Every(3, 9, 12, 30),
			AnnounceTitle: "📢 Daily Scrum",
			AnnounceText: "Please write your scrum by `09:10`.\n\n" +
				"Status: `Daily-Scrum`\nTitle: `YY.MM.DD name`\nAssign yourself as `assignee`.",
			FollowUpTitle: "📢 Daily Scrum not submitted",
			FollowUpText: "Please write your scrum as a `sub-issue` under today's issue.\n\n" +
				"Title: `YY.MM.DD name`\nAssign yourself as `assignee`.",
			LinkLabel: "Write your scrum",
			Link:      links.DailyScrum,
		},
		{
			Kind:          WeeklyPlanning,
			Status:        tracking.StatusWeeklyPlanning,
			Announce:      At(10, 0, time.Monday),
			FollowUp:      Hourly(14, 16, time.Monday),
			AnnounceTitle: "📢 Weekly Planning",
			AnnounceText: "Please write your weekly plan by `13:30`.\n\n" +
				"Status: `Weekly-Planning`\nTitle: `YY.MM.DD name`\nAssign yourself as `assignee`.",
			FollowUpTitle: "📢 Weekly Planning not submitted",
			FollowUpText: "Please write your weekly plan.\n\n" +
				"Status: `Weekly-Planning`\nTitle: `YY.MM.DD name`\nAssign yourself as `assignee`.",
			LinkLabel: "Write your plan",
			Link:      links.WeeklyPlanning,
		},
		{
			Kind:          WeeklyRetrospect,
			Status:        tracking.StatusWeeklyRetrospect,
			Announce:      At(10, 0, time.Thursday),
			FollowUp:      Hourly(11, 17, time.Thursday),
			AnnounceTitle: "📢 Weekly Retrospect",
			AnnounceText: "Please write your weekly retrospect.\n\n" +
				"Status: `Weekly-Retrospect`\nTitle: `YY.MM.DD name`\nAssign yourself as `assignee`.",
			FollowUpTitle: "📢 Weekly Retrospect not submitted",
			FollowUpText: "Please write your weekly retrospect.\n\n" +
				"Status: `Weekly-Retrospect`\nTitle: `YY.MM.DD name`\nAssign yourself as `assignee`.",
			LinkLabel: "Write your retrospect",
			Link:      links.WeeklyRetrospect,
		},
	}
}

// Find returns the reminder of the given kind.
func Find(reminders []Reminder, kind Kind) (Reminder, bool) {
	for _, r := range reminders {
		if r.Kind == kind {
			return r, true
		}
	}
	return Reminder{}, false
}

func (r Reminder) describe(text string) string {
	if r.Link == "" {
		return text
	}
	return fmt.Sprintf("%s\n\n🔗 [%s](%s)", text, r.LinkLabel, r.Link)
}

// Announcement is the message sent to everyone when the announce window opens.
func (r Reminder) Announcement() chat.Message {
	return chat.Message{
		Title:       r.AnnounceTitle,
		Description: r.describe(r.AnnounceText),
		Color:       ColorAnnounce,
		Mention:     chat.MentionEveryone,
	}
}

// FollowUpFor is the message mentioning one user who has not submitted.
func (r Reminder) FollowUpFor(mentionID string) chat.Message {
	return chat.Message{
		Title:       r.FollowUpTitle,
		Description: r.describe(r.FollowUpText),
		Color:       ColorFollowUp,
		Mention:     mentionID,
	}
}
