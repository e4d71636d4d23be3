package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf_UsesLocalCalendarDate(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 2025-03-10 23:30 UTC is already 2025-03-11 in Jakarta
	instant := time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC).In(jakarta)

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), DayOf(instant))
}

func TestDaysInclusive(t *testing.T) {
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 1, DaysInclusive(from, from))
	assert.Equal(t, 3, DaysInclusive(from, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 22, DaysInclusive(from, time.Date(2025, 3, 31, 18, 0, 0, 0, time.UTC)))
}

func TestSystemClock_TodayInLocation(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)
	c := New(loc)

	now := c.Now()
	assert.Equal(t, loc, now.Location())
	assert.Equal(t, DayOf(now), c.Today())
}

func TestFixed_Advance(t *testing.T) {
	f := NewFixed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	f.Advance(15 * time.Hour)

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), f.Today())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("12/03/2025")
	assert.Error(t, err)
}
