package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueItem(title string, status string, assignees ...string) Item {
	item := Item{
		ID:    title,
		Issue: &Issue{Title: title, URL: "https://github.com/org/repo/issues/" + title, Assignees: assignees},
	}
	if status != "" {
		item.FieldValues = append(item.FieldValues, SingleSelectValue{Field: "Status", Name: status})
	}
	return item
}

func TestGetFieldValueVariants(t *testing.T) {
	item := Item{
		ID:    "PVTI_1",
		Issue: &Issue{Title: "25.06.02 Kim"},
		FieldValues: []FieldValue{
			UnknownValue{Field: "Iteration", TypeName: "ProjectV2ItemFieldIterationValue"},
			TextValue{Field: "Title", Text: "25.06.02 Kim"},
			SingleSelectValue{Field: "Status", Name: "Daily-Scrum"},
			SingleSelectValue{Field: "Status", Name: "Done"},
			NumberValue{Field: "Estimate", Number: 3},
			DateValue{Field: "Due", Date: "2025-06-02"},
			UserValue{Field: "Reviewers", Logins: []string{"alice", "bob"}},
			UserValue{Field: "Pairs"},
			RepositoryValue{Field: "Repository", Name: "scrum"},
			MilestoneValue{Field: "Milestone", Title: "v1"},
			LabelValue{Field: "Labels", Names: []string{"scrum"}},
			PullRequestValue{Field: "Linked pull requests", Titles: []string{"Fix login"}},
		},
	}

	cases := []struct {
		field string
		want  any
		ok    bool
	}{
		{"Title", "25.06.02 Kim", true},
		{"Status", "Daily-Scrum", true},
		{"Estimate", float64(3), true},
		{"Due", "2025-06-02", true},
		{"Reviewers", []string{"alice", "bob"}, true},
		{"Pairs", nil, false},
		{"Repository", "scrum", true},
		{"Milestone", "v1", true},
		{"Labels", []string{"scrum"}, true},
		{"Linked pull requests", []string{"Fix login"}, true},
		{"Iteration", nil, false},
		{"Missing", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			got, ok := GetFieldValue(item, tc.field)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetFieldValueWithoutIssue(t *testing.T) {
	item := Item{FieldValues: []FieldValue{SingleSelectValue{Field: "Status", Name: "Daily-Scrum"}}}

	_, ok := GetFieldValue(item, "Status")
	assert.False(t, ok)
}

func TestGetFieldValueSkipsUnknownMatch(t *testing.T) {
	item := Item{
		Issue: &Issue{Title: "x"},
		FieldValues: []FieldValue{
			UnknownValue{Field: "Status", TypeName: "ProjectV2ItemFieldFutureValue"},
			SingleSelectValue{Field: "Status", Name: "Weekly-Planning"},
		},
	}

	assert.Equal(t, "Weekly-Planning", FieldString(item, "Status"))
}

func TestIsTargetIssue(t *testing.T) {
	assert.True(t, IsTargetIssue(issueItem("25.06.02 Kim", StatusWeeklyPlanning), StatusWeeklyPlanning))
	assert.False(t, IsTargetIssue(issueItem("25.06.02 Kim", StatusWeeklyRetrospect), StatusWeeklyPlanning))
	assert.False(t, IsTargetIssue(issueItem("25.06.02 Kim", "weekly-planning"), StatusWeeklyPlanning))
	assert.False(t, IsTargetIssue(issueItem("25.06.02 Kim", ""), StatusWeeklyPlanning))

	noContent := Item{FieldValues: []FieldValue{SingleSelectValue{Field: "Status", Name: StatusWeeklyPlanning}}}
	assert.False(t, IsTargetIssue(noContent, StatusWeeklyPlanning))

	numeric := Item{Issue: &Issue{Title: "t"}, FieldValues: []FieldValue{NumberValue{Field: "Status", Number: 1}}}
	assert.False(t, IsTargetIssue(numeric, StatusWeeklyPlanning))
}

func TestExtractDateFromTitle(t *testing.T) {
	cases := map[string]string{
		"25.06.02 Kim": "25.06.02",
		"25.06.02":     "25.06.02",
		"25.06.021":    "25.06.02",
		"Kim 25.06.02": "",
		"2025.06.02":   "",
		"25-06-02 Kim": "",
		"25.6.02 Kim":  "",
		"":             "",
		" 25.06.02":    "",
	}
	for title, want := range cases {
		got := ExtractDateFromTitle(title)
		assert.Equal(t, want, got, "title %q", title)
		if got != "" {
			assert.Len(t, got, 8)
		}
	}
}

func TestToday(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	now := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "25.06.01", Today(now))
	assert.Equal(t, "25.06.02", Today(now.In(seoul)))
}

func TestParentAndSubIssue(t *testing.T) {
	today := "25.06.02"

	assert.True(t, IsTodayParentScrumIssue(issueItem(today, StatusDailyScrum), today))
	assert.False(t, IsTodayParentScrumIssue(issueItem(today, StatusWeeklyPlanning), today))
	assert.False(t, IsTodayParentScrumIssue(issueItem(today+" Kim", StatusDailyScrum), today))

	assert.True(t, IsSubIssueOfToday(issueItem(today+" Kim", ""), today))
	assert.False(t, IsSubIssueOfToday(issueItem(today, ""), today))
	assert.False(t, IsSubIssueOfToday(issueItem(today+"Kim", ""), today))
	assert.False(t, IsSubIssueOfToday(Item{}, today))
}

func TestDailyScrumSubIssuesRequiresParent(t *testing.T) {
	today := "25.06.02"
	items := []Item{
		issueItem(today+" Kim", StatusDailyScrum, "kim"),
		issueItem(today+" Lee", StatusDailyScrum, "lee"),
		issueItem(today, StatusWeeklyPlanning),
	}

	subs := DailyScrumSubIssues(items, today)
	require.NotNil(t, subs)
	assert.Empty(t, subs)
}

func TestDailyScrumSubIssuesKeepsSourceOrder(t *testing.T) {
	today := "25.06.02"
	items := []Item{
		issueItem(today+" Lee", "", "lee"),
		issueItem("25.06.01 Kim", "", "kim"),
		issueItem(today, StatusDailyScrum),
		issueItem(today+" Kim", "", "Kim", "park"),
		{ID: "draft"},
	}

	subs := DailyScrumSubIssues(items, today)
	require.Len(t, subs, 2)
	assert.Equal(t, today+" Lee", subs[0].Title)
	assert.Equal(t, []string{"lee"}, subs[0].Assignees)
	assert.Equal(t, today+" Kim", subs[1].Title)
	assert.Equal(t, "https://github.com/org/repo/issues/"+today+" Kim", subs[1].URL)
	assert.Equal(t, []string{"Kim", "park"}, subs[1].Assignees)
}

func TestFilterTargetIssues(t *testing.T) {
	items := []Item{
		issueItem("25.06.02 Kim", StatusWeeklyPlanning),
		issueItem("25.06.02 Lee", StatusDailyScrum),
		issueItem("25.06.02 Park", StatusWeeklyPlanning),
	}

	got := FilterTargetIssues(items, StatusWeeklyPlanning)
	require.Len(t, got, 2)
	assert.Equal(t, "25.06.02 Kim", got[0].Title())
	assert.Equal(t, "25.06.02 Park", got[1].Title())
}

func TestCheckIssueCreatedByUsersIsCaseInsensitive(t *testing.T) {
	today := "25.06.02"
	items := []Item{issueItem(today+" Bob", StatusWeeklyPlanning, "Bob")}

	result := CheckIssueCreatedByUsers(items, []string{"alice", "BOB"}, today)

	assert.Equal(t, map[string]bool{"alice": false, "BOB": true}, result.Map())
	assert.Equal(t, "alice", result[0].User)
	assert.Equal(t, "BOB", result[1].User)
}

func TestCheckIssueCreatedByUsersIgnoresOtherDays(t *testing.T) {
	items := []Item{
		issueItem("25.06.01 Alice", "", "alice"),
		issueItem("Alice 25.06.02", "", "alice"),
		{ID: "no-content"},
		issueItem("25.06.02 Carol", "", "carol"),
	}

	result := CheckIssueCreatedByUsers(items, []string{"alice", "carol"}, "25.06.02")

	assert.Equal(t, map[string]bool{"alice": false, "carol": true}, result.Map())
	assert.Equal(t, 1, result.Unsubmitted())
}

func TestCheckSubIssueAssignees(t *testing.T) {
	subs := []SubIssue{{Title: "25.06.02 Kim", Assignees: []string{"KIM"}}}

	result := CheckSubIssueAssignees(subs, []string{"kim", "lee"})

	assert.Equal(t, SubmissionResult{{User: "kim", Submitted: true}, {User: "lee", Submitted: false}}, result)
}

func TestUnsubmittedMentionIDs(t *testing.T) {
	result := SubmissionResult{
		{User: "alice", Submitted: false},
		{User: "bob", Submitted: true},
		{User: "ghost", Submitted: false},
		{User: "carol", Submitted: false},
	}
	userMap := UserMap{"alice": "111", "bob": "222", "carol": "333"}

	ids := UnsubmittedMentionIDs(result, userMap)

	assert.Equal(t, []string{"111", "", "333"}, ids)
	assert.Len(t, ids, result.Unsubmitted())
}

func TestUserMapUsersSorted(t *testing.T) {
	m := UserMap{"zed": "1", "Amy": "2", "bob": "3"}

	assert.Equal(t, []string{"Amy", "bob", "zed"}, m.Users())
}
