// Package reminder defines the reminder kinds, the time windows in which they
// fire and the messages they send.
package reminder

import (
	"sync"
	"time"
)

// Clock is the part of the site-local time a window looks at.
type Clock struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

func ClockOf(t time.Time) Clock {
	return Clock{Weekday: t.Weekday(), Hour: t.Hour(), Minute: t.Minute()}
}

// Window decides whether a reminder fires at the given clock. No window fires
// on a holiday.
type Window func(c Clock, holiday bool) bool

func isWeekday(d time.Weekday) bool {
	return d >= time.Monday && d <= time.Friday
}

// At fires on the given days at exactly hour:minute.
func At(hour, minute int, days ...time.Weekday) Window {
	return func(c Clock, holiday bool) bool {
		return !holiday && onDay(c.Weekday, days) && c.Hour == hour && c.Minute == minute
	}
}

// Hourly fires on the given days on the hour, from fromHour to toHour inclusive.
func Hourly(fromHour, toHour int, days ...time.Weekday) Window {
	return func(c Clock, holiday bool) bool {
		return !holiday && onDay(c.Weekday, days) &&
			c.Hour >= fromHour && c.Hour <= toHour && c.Minute == 0
	}
}

// Every fires on the given days during hour, for minutes
// [fromMinute, untilMinute), once every step minutes counted from fromMinute.
func Every(step, hour, fromMinute, untilMinute int, days ...time.Weekday) Window {
	return func(c Clock, holiday bool) bool {
		return !holiday && onDay(c.Weekday, days) && c.Hour == hour &&
			c.Minute >= fromMinute && c.Minute < untilMinute && (c.Minute-fromMinute)%step == 0
	}
}

// onDay with no days means Monday through Friday.
func onDay(d time.Weekday, days []time.Weekday) bool {
	if len(days) == 0 {
		return isWeekday(d)
	}
	for _, want := range days {
		if d == want {
			return true
		}
	}
	return false
}

// Guard lets each key fire at most once per wall-clock minute, so a tick
// shorter than a minute cannot repeat a window.
type Guard struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func NewGuard() *Guard {
	return &Guard{last: make(map[string]time.Time)}
}

// Allow records now for key and reports whether key has not fired this minute.
func (g *Guard) Allow(key string, now time.Time) bool {
	minute := now.Truncate(time.Minute)
	g.mu.Lock()
	defer g.mu.Unlock()
	if prev, ok := g.last[key]; ok && prev.Equal(minute) {
		return false
	}
	g.last[key] = minute
	return true
}
