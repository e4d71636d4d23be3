package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, now time.Time) (attendance.Tracker, *clock.Fixed, attendance.Repository) {
	t.Helper()
	clk := clock.NewFixed(now)
	repo := memory.NewAttendanceRepository(memory.NewStore())
	return NewTracker(repo, clk), clk, repo
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestTracker_CheckIn_Success(t *testing.T) {
	ctx := context.Background()
	tracker, _, _ := newTestTracker(t, at(10, 9, 0))

	rec, err := tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, attendance.StatusCheckedIn, rec.Status)
	assert.Equal(t, at(10, 9, 0), rec.CheckIn)
	assert.Equal(t, at(10, 0, 0), rec.WorkDate)
	assert.Nil(t, rec.CheckOut)
	assert.Nil(t, rec.TotalHours)
}

func TestTracker_CheckIn_TwiceSameDay(t *testing.T) {
	ctx := context.Background()
	tracker, clk, _ := newTestTracker(t, at(10, 9, 0))

	_, err := tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	_, err = tracker.CheckIn(ctx, "emp-1")
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestTracker_CheckIn_NextDayAllowed(t *testing.T) {
	ctx := context.Background()
	tracker, clk, _ := newTestTracker(t, at(10, 9, 0))

	_, err := tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)

	clk.Set(at(11, 9, 0))
	rec, err := tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, at(11, 0, 0), rec.WorkDate)
}

func TestTracker_CheckIn_AfterCompletedSessionAllowed(t *testing.T) {
	ctx := context.Background()
	tracker, clk, _ := newTestTracker(t, at(10, 9, 0))

	_, err := tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	clk.Set(at(10, 12, 0))
	_, err = tracker.CheckOutToday(ctx, "emp-1")
	require.NoError(t, err)

	clk.Set(at(10, 13, 0))
	_, err = tracker.CheckIn(ctx, "emp-1")
	assert.NoError(t, err)
}

func TestTracker_CheckIn_ConcurrentSameEmployee(t *testing.T) {
	ctx := context.Background()
	tracker, _, repo := newTestTracker(t, at(10, 9, 0))

	const attempts = 25
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tracker.CheckIn(ctx, "emp-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, succeeded)

	open, err := repo.GetOpenByEmployeeAndDay(ctx, "emp-1", at(10, 0, 0))
	require.NoError(t, err)
	assert.Len(t, open, 1)
}

func TestTracker_CheckOut_ComputesHours(t *testing.T) {
	ctx := context.Background()
	tracker, clk, _ := newTestTracker(t, at(10, 9, 0))

	rec, err := tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)

	clk.Set(at(10, 17, 30))
	done, err := tracker.CheckOut(ctx, rec.ID)
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusCompleted, done.Status)
	require.NotNil(t, done.CheckOut)
	assert.Equal(t, at(10, 17, 30), *done.CheckOut)
	require.NotNil(t, done.TotalHours)
	assert.Equal(t, 8.5, *done.TotalHours)
}

func TestTracker_CheckOut_AlreadyCompleted(t *testing.T) {
	ctx := context.Background()
	tracker, clk, _ := newTestTracker(t, at(10, 9, 0))

	rec, err := tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	clk.Advance(time.Hour)
	_, err = tracker.CheckOut(ctx, rec.ID)
	require.NoError(t, err)

	_, err = tracker.CheckOut(ctx, rec.ID)
	assert.ErrorIs(t, err, attendance.ErrInvalidState)
}

func TestTracker_CheckOut_NotFound(t *testing.T) {
	tracker, _, _ := newTestTracker(t, at(10, 9, 0))

	_, err := tracker.CheckOut(context.Background(), "missing")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestTracker_CheckOutToday_WithoutCheckIn(t *testing.T) {
	tracker, _, _ := newTestTracker(t, at(10, 9, 0))

	_, err := tracker.CheckOutToday(context.Background(), "emp-1")
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestTracker_GetToday(t *testing.T) {
	ctx := context.Background()
	tracker, clk, _ := newTestTracker(t, at(10, 9, 0))

	today, err := tracker.GetToday(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, today)

	rec, err := tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	clk.Set(at(10, 17, 0))
	_, err = tracker.CheckOut(ctx, rec.ID)
	require.NoError(t, err)

	today, err = tracker.GetToday(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, rec.ID, today.ID)
	assert.Equal(t, attendance.StatusCompleted, today.Status)

	clk.Set(at(11, 8, 0))
	today, err = tracker.GetToday(ctx, "emp-1")
	require.NoError(t, err)
	assert.Nil(t, today)
}

func TestTracker_GetInRange(t *testing.T) {
	ctx := context.Background()
	tracker, clk, _ := newTestTracker(t, at(3, 9, 0))

	for d := 3; d <= 7; d++ {
		clk.Set(at(d, 9, 0))
		_, err := tracker.CheckIn(ctx, "emp-1")
		require.NoError(t, err)
	}

	records, err := tracker.GetInRange(ctx, "emp-1", at(4, 0, 0), at(6, 0, 0))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, at(6, 0, 0), records[0].WorkDate)
	assert.Equal(t, at(4, 0, 0), records[2].WorkDate)

	_, err = tracker.GetInRange(ctx, "emp-1", at(6, 0, 0), at(4, 0, 0))
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
}

func TestTracker_GetHistory_DefaultWindow(t *testing.T) {
	ctx := context.Background()
	tracker, clk, _ := newTestTracker(t, time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC))

	_, err := tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)
	clk.Set(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	_, err = tracker.CheckIn(ctx, "emp-1")
	require.NoError(t, err)

	clk.Set(at(10, 9, 0))
	records, err := tracker.GetHistory(ctx, "emp-1", attendance.RangeQuery{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), records[0].WorkDate)

	records, err = tracker.GetHistory(ctx, "emp-1", attendance.RangeQuery{From: "2025-01-01", To: "2025-01-31"})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = tracker.GetHistory(ctx, "emp-1", attendance.RangeQuery{From: "2025-01-01"})
	assert.Error(t, err)
}

func TestTracker_MonthlySummary(t *testing.T) {
	ctx := context.Background()
	tracker, clk, _ := newTestTracker(t, at(3, 9, 0))

	// two completed days of 8h and 7h, one still open
	sessions := []struct{ day, outHour int }{{3, 17}, {4, 16}, {5, 0}}
	for _, s := range sessions {
		clk.Set(at(s.day, 9, 0))
		rec, err := tracker.CheckIn(ctx, "emp-1")
		require.NoError(t, err)
		if s.outHour > 0 {
			clk.Set(at(s.day, s.outHour, 0))
			_, err = tracker.CheckOut(ctx, rec.ID)
			require.NoError(t, err)
		}
	}

	clk.Set(at(5, 12, 0))
	summary, err := tracker.MonthlySummary(ctx, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, "2025-03", summary.Month)
	assert.Equal(t, 3, summary.TotalDays)
	assert.Equal(t, 2, summary.PresentDays)
	assert.InDelta(t, 15.0, summary.TotalHours, 1e-9)
	assert.InDelta(t, 7.5, summary.AverageHoursPerDay, 1e-9)
}

func TestTracker_MonthlySummary_Empty(t *testing.T) {
	tracker, _, _ := newTestTracker(t, at(5, 12, 0))

	summary, err := tracker.MonthlySummary(context.Background(), "emp-1")
	require.NoError(t, err)
	assert.Zero(t, summary.AverageHoursPerDay)
}

func TestTracker_ListAllInRange(t *testing.T) {
	ctx := context.Background()
	tracker, _, _ := newTestTracker(t, at(10, 9, 0))

	for _, emp := range []string{"emp-1", "emp-2", "emp-3"} {
		_, err := tracker.CheckIn(ctx, emp)
		require.NoError(t, err)
	}

	records, err := tracker.ListAllInRange(ctx, attendance.RangeQuery{From: "2025-03-10", To: "2025-03-10"})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = tracker.ListAllInRange(ctx, attendance.RangeQuery{From: "2025-03-11", To: "2025-03-10"})
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
}

// duplicateRepo simulates storage that already holds two open sessions for one day.
type duplicateRepo struct {
	attendance.Repository
	open []attendance.Record
}

func (d *duplicateRepo) GetOpenByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.Record, error) {
	return d.open, nil
}

func (d *duplicateRepo) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.Record, error) {
	return d.open, nil
}

func TestTracker_DuplicateOpenSessions(t *testing.T) {
	ctx := context.Background()
	repo := &duplicateRepo{
		Repository: memory.NewAttendanceRepository(memory.NewStore()),
		open: []attendance.Record{
			{ID: "newer", EmployeeID: "emp-1", WorkDate: at(10, 0, 0), CheckIn: at(10, 10, 0), Status: attendance.StatusCheckedIn},
			{ID: "older", EmployeeID: "emp-1", WorkDate: at(10, 0, 0), CheckIn: at(10, 9, 0), Status: attendance.StatusCheckedIn},
		},
	}
	tracker := NewTracker(repo, clock.NewFixed(at(10, 12, 0)))

	_, err := tracker.CheckIn(ctx, "emp-1")
	var violation *attendance.InvariantViolationError
	require.ErrorAs(t, err, &violation)
	assert.ErrorIs(t, err, attendance.ErrInvariantViolation)
	assert.Equal(t, []string{"newer", "older"}, violation.RecordIDs)

	_, err = tracker.CheckOutToday(ctx, "emp-1")
	assert.ErrorIs(t, err, attendance.ErrInvariantViolation)

	today, err := tracker.GetToday(ctx, "emp-1")
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, []string{"newer", "older"}, violation.RecordIDs)
	require.NotNil(t, today)
	assert.Equal(t, "newer", today.ID)
}
