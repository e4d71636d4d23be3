// Package clock is the single source of "now" and "today" for the engine.
//
// Calendar days are represented as midnight UTC of the local calendar date,
// which is also how pgx scans a DATE column.
package clock

import (
	"sync"
	"time"
)

const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
	Today() time.Time
}

type systemClock struct {
	loc *time.Location
}

// New returns a wall clock whose calendar days are taken in loc.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c systemClock) Today() time.Time {
	return DayOf(c.Now())
}

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysInclusive counts the calendar days in [from, to]. It is not negative-safe;
// callers check the order first.
func DaysInclusive(from, to time.Time) int {
	return int(DayOf(to).Sub(DayOf(from)).Hours()/24) + 1
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func FirstOfMonth(day time.Time) time.Time {
	y, m, _ := day.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// Fixed is a settable Clock for tests and replays.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fixed) Today() time.Time {
	return DayOf(f.Now())
}

func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
