package tracking

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the Go layout of the date token that prefixes issue titles.
const DateLayout = "06.01.02"

var titleDatePattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{2}`)

// Today formats now as a title date token in now's location.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// IsTargetIssue reports whether the item is an issue whose Status is exactly statusLabel.
func IsTargetIssue(item Item, statusLabel string) bool {
	if item.Issue == nil {
		return false
	}
	v, ok := GetFieldValue(item, "Status")
	if !ok {
		return false
	}
	status, isString := v.(string)
	return isString && status == statusLabel
}

// ExtractDateFromTitle returns the YY.MM.DD token the title starts with, or "".
func ExtractDateFromTitle(title string) string {
	return titleDatePattern.FindString(title)
}

func IsTodayParentScrumIssue(item Item, today string) bool {
	if item.Issue == nil || item.Issue.Title != today {
		return false
	}
	return FieldString(item, "Status") == StatusDailyScrum
}

func IsSubIssueOfToday(item Item, today string) bool {
	if item.Issue == nil {
		return false
	}
	return strings.HasPrefix(item.Issue.Title, today+" ")
}

// DailyScrumSubIssues collects the "<today> <name>" issues filed under today's
// Daily-Scrum parent, in source order. Without a parent for today there are no
// candidates at all, however many titles carry today's prefix.
func DailyScrumSubIssues(items []Item, today string) []SubIssue {
	found := false
	for _, item := range items {
		if IsTodayParentScrumIssue(item, today) {
			found = true
			break
		}
	}
	if !found {
		return []SubIssue{}
	}

	subs := []SubIssue{}
	for _, item := range items {
		if !IsSubIssueOfToday(item, today) {
			continue
		}
		subs = append(subs, SubIssue{
			Title:     item.Issue.Title,
			URL:       item.Issue.URL,
			Assignees: append([]string(nil), item.Issue.Assignees...),
		})
	}
	return subs
}

// FilterTargetIssues keeps the items whose Status is statusLabel.
func FilterTargetIssues(items []Item, statusLabel string) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if IsTargetIssue(item, statusLabel) {
			out = append(out, item)
		}
	}
	return out
}
