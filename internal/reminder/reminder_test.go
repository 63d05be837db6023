package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamnara/scrumbot/internal/chat"
)

func clock(d time.Weekday, h, m int) Clock {
	return Clock{Weekday: d, Hour: h, Minute: m}
}

func TestDailyScrumWindows(t *testing.T) {
	r, ok := Find(Defaults(Links{}), DailyScrum)
	require.True(t, ok)

	assert.True(t, r.Announce(clock(time.Monday, 9, 5), false))
	assert.True(t, r.Announce(clock(time.Friday, 9, 5), false))
	assert.False(t, r.Announce(clock(time.Saturday, 9, 5), false))
	assert.False(t, r.Announce(clock(time.Monday, 9, 6), false))
	assert.False(t, r.Announce(clock(time.Monday, 9, 5), true))

	fired := 0
	for m := 0; m < 60; m++ {
		if r.FollowUp(clock(time.Wednesday, 9, m), false) {
			fired++
		}
	}
	assert.Equal(t, 6, fired)
	assert.False(t, r.FollowUp(clock(time.Wednesday, 9, 0), false))
	assert.False(t, r.FollowUp(clock(time.Wednesday, 9, 3), false))
	assert.False(t, r.FollowUp(clock(time.Wednesday, 9, 9), false))
	assert.True(t, r.FollowUp(clock(time.Wednesday, 9, 12), false))
	assert.True(t, r.FollowUp(clock(time.Wednesday, 9, 27), false))
	assert.False(t, r.FollowUp(clock(time.Wednesday, 9, 30), false))
	assert.False(t, r.FollowUp(clock(time.Sunday, 9, 12), false))
	assert.False(t, r.FollowUp(clock(time.Wednesday, 9, 12), true))
}

func TestWeeklyWindows(t *testing.T) {
	reminders := Defaults(Links{})
	plan, _ := Find(reminders, WeeklyPlanning)
	retro, _ := Find(reminders, WeeklyRetrospect)

	assert.True(t, plan.Announce(clock(time.Monday, 10, 0), false))
	assert.False(t, plan.Announce(clock(time.Thursday, 10, 0), false))
	assert.True(t, plan.FollowUp(clock(time.Monday, 14, 0), false))
	assert.True(t, plan.FollowUp(clock(time.Monday, 16, 0), false))
	assert.False(t, plan.FollowUp(clock(time.Monday, 17, 0), false))
	assert.False(t, plan.FollowUp(clock(time.Monday, 14, 1), false))
	assert.False(t, plan.FollowUp(clock(time.Monday, 13, 0), false), "before the 13:30 deadline")
	assert.False(t, plan.FollowUp(clock(time.Monday, 10, 0), false), "same minute as the announcement")

	assert.True(t, retro.Announce(clock(time.Thursday, 10, 0), false))
	assert.False(t, retro.FollowUp(clock(time.Thursday, 10, 0), false), "same minute as the announcement")
	assert.True(t, retro.FollowUp(clock(time.Thursday, 11, 0), false))
	assert.True(t, retro.FollowUp(clock(time.Thursday, 17, 0), false))
	assert.False(t, retro.FollowUp(clock(time.Thursday, 18, 0), false))
	assert.False(t, retro.FollowUp(clock(time.Thursday, 12, 0), true))
	assert.False(t, retro.FollowUp(clock(time.Monday, 12, 0), false))
}

func TestGuardOncePerMinute(t *testing.T) {
	g := NewGuard()
	base := time.Date(2025, 6, 2, 9, 5, 0, 0, time.UTC)

	assert.True(t, g.Allow("daily", base))
	assert.False(t, g.Allow("daily", base.Add(10*time.Second)))
	assert.False(t, g.Allow("daily", base.Add(50*time.Second)))
	assert.True(t, g.Allow("weekly", base.Add(10*time.Second)))
	assert.True(t, g.Allow("daily", base.Add(time.Minute)))
}

func TestMessages(t *testing.T) {
	r, _ := Find(Defaults(Links{WeeklyPlanning: "https://github.com/orgs/tamnara/projects/7/views/2"}), WeeklyPlanning)

	a := r.Announcement()
	assert.Equal(t, chat.MentionEveryone, a.Mention)
	assert.Equal(t, ColorAnnounce, a.Color)
	assert.Contains(t, a.Description, "[Write your plan](https://github.com/orgs/tamnara/projects/7/views/2)")

	f := r.FollowUpFor("1234")
	assert.Equal(t, "1234", f.Mention)
	assert.Equal(t, ColorFollowUp, f.Color)
	assert.Equal(t, "📢 Weekly Planning not submitted", f.Title)

	daily, _ := Find(Defaults(Links{}), DailyScrum)
	assert.NotContains(t, daily.Announcement().Description, "🔗")
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"daily":             DailyScrum,
		"weekly-plan":       WeeklyPlanning,
		"weekly-retro":      WeeklyRetrospect,
		"weekly-retrospect": WeeklyRetrospect,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseKind("monthly")
	assert.Error(t, err)
}
