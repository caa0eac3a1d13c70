package logbook

import (
	"fmt"
	"time"

	"bizdash/internal/timeutil"
)

// Period is a closed interval of calendar dates.
type Period struct {
	From time.Time
	To   time.Time
}

func NewPeriod(from, to time.Time) Period {
	return Period{From: timeutil.StartOfDay(from), To: timeutil.StartOfDay(to)}
}

// LastDays returns the window of n days ending at end, both inclusive.
func LastDays(end time.Time, n int) Period {
	if n < 1 {
		n = 1
	}
	end = timeutil.StartOfDay(end)
	return Period{From: end.AddDate(0, 0, -(n - 1)), To: end}
}

func (p Period) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	day := timeutil.StartOfDay(t)
	from := timeutil.StartOfDay(p.From)
	to := timeutil.StartOfDay(p.To)
	if !p.From.IsZero() && day.Before(from) {
		return false
	}
	if !p.To.IsZero() && day.After(to) {
		return false
	}
	return true
}

func (p Period) Validate() error {
	if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
		return fmt.Errorf("period end %s is before start %s", p.To.Format("2006-01-02"), p.From.Format("2006-01-02"))
	}
	return nil
}

func (p Period) String() string {
	return fmt.Sprintf("%s..%s", formatDay(p.From), formatDay(p.To))
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format("2006-01-02")
}
