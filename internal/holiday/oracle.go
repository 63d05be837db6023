package holiday

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"
)

const monthLayout = "200601"

// RefreshAfter is how old a successful refresh may get before Stale reports it.
const RefreshAfter = 24 * time.Hour

// Lister is the calendar lookup the oracle depends on.
type Lister interface {
	Holidays(ctx context.Context, year int, month time.Month) ([]string, error)
}

// Oracle caches the holiday dates of the current month. Refresh is the only
// writer. A failed refresh keeps what was cached; before the first success
// every day is a working day.
type Oracle struct {
	Lister   Lister
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger

	mu        sync.RWMutex
	month     string
	days      []string
	holiday   bool
	refreshed time.Time
}

func NewOracle(lister Lister, loc *time.Location, logger *slog.Logger) *Oracle {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Oracle{Lister: lister, Location: loc, Now: time.Now, Logger: logger}
}

// IsHoliday reports whether the current local date is a holiday.
func (o *Oracle) IsHoliday() bool {
	return o.HolidayAt(o.Now())
}

// HolidayAt reports whether the local date of t is a holiday. Dates in the
// cached month are answered from its list; for any other month the answer of
// the last refresh stands until the next one succeeds.
func (o *Oracle) HolidayAt(t time.Time) bool {
	local := t.In(o.Location)
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.month != "" && o.month == local.Format(monthLayout) {
		return slices.Contains(o.days, local.Format(DateLayout))
	}
	return o.holiday
}

// Stale reports whether the cache should be refreshed at t: nothing cached
// yet, a new local month, or a refresh older than RefreshAfter.
func (o *Oracle) Stale(t time.Time) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.refreshed.IsZero() {
		return true
	}
	return o.month != t.In(o.Location).Format(monthLayout) || t.Sub(o.refreshed) >= RefreshAfter
}

// LastRefresh is the time of the last successful refresh, zero if none.
func (o *Oracle) LastRefresh() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.refreshed
}

// Refresh asks the calendar about the current month and caches its holiday
// dates. It returns whether today is one of them.
func (o *Oracle) Refresh(ctx context.Context) bool {
	now := o.Now().In(o.Location)
	if o.Lister == nil {
		o.Logger.Warn("holiday lookup not configured; assuming working day")
		return o.HolidayAt(now)
	}

	dates, err := o.Lister.Holidays(ctx, now.Year(), now.Month())
	if err != nil {
		prev := o.HolidayAt(now)
		o.Logger.Error("holiday refresh failed; keeping previous value", "error", err, "holiday", prev)
		return prev
	}

	today := now.Format(DateLayout)
	isHoliday := slices.Contains(dates, today)

	o.mu.Lock()
	o.month = now.Format(monthLayout)
	o.days = slices.Clone(dates)
	o.holiday = isHoliday
	o.refreshed = o.Now()
	o.mu.Unlock()

	o.Logger.Info("holiday refreshed", "date", today, "holiday", isHoliday, "month_holidays", len(dates))
	return isHoliday
}
