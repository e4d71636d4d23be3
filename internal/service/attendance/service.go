package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/keylock"
)

type TrackerImpl struct {
	attendance.Repository
	clock clock.Clock
	locks *keylock.Locker
}

func NewTracker(repo attendance.Repository, clk clock.Clock) attendance.Tracker {
	return &TrackerImpl{
		Repository: repo,
		clock:      clk,
		locks:      keylock.New(),
	}
}

// CheckIn opens today's session. The per-employee lock makes the existence
// check and the insert one step; the store's unique index backs it up.
func (t *TrackerImpl) CheckIn(ctx context.Context, employeeID string) (attendance.Record, error) {
	unlock, err := t.locks.Lock(ctx, employeeID)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	defer unlock()

	now := t.clock.Now()
	day := clock.DayOf(now)

	open, err := t.Repository.GetOpenByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to get open sessions: %w", err)
	}
	if err := attendance.CheckOpenSessions(employeeID, day, open); err != nil {
		t.logViolation(err)
		return attendance.Record{}, err
	}

	record, err := t.Repository.Create(ctx, attendance.Record{
		EmployeeID: employeeID,
		WorkDate:   day,
		CheckIn:    now,
		Status:     attendance.StatusCheckedIn,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	slog.Info("employee checked in", "employee_id", employeeID, "record_id", record.ID, "work_date", day.Format(clock.DateLayout))
	return record, nil
}

// CheckOut closes the given session.
func (t *TrackerImpl) CheckOut(ctx context.Context, recordID string) (attendance.Record, error) {
	record, err := t.Repository.GetByID(ctx, recordID)
	if err != nil {
		return attendance.Record{}, err
	}

	unlock, err := t.locks.Lock(ctx, record.EmployeeID)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	defer unlock()

	return t.complete(ctx, record)
}

// CheckOutToday closes the caller's open session for today.
func (t *TrackerImpl) CheckOutToday(ctx context.Context, employeeID string) (attendance.Record, error) {
	unlock, err := t.locks.Lock(ctx, employeeID)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to acquire attendance lock: %w", err)
	}
	defer unlock()

	day := t.clock.Today()
	open, err := t.Repository.GetOpenByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to get open sessions: %w", err)
	}

	switch err := attendance.CheckOpenSessions(employeeID, day, open); {
	case err == nil:
		return attendance.Record{}, fmt.Errorf("%w: employee %s", attendance.ErrNotCheckedIn, employeeID)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		return t.complete(ctx, open[0])
	default:
		t.logViolation(err)
		return attendance.Record{}, err
	}
}

// complete requires the caller to hold the employee's lock.
func (t *TrackerImpl) complete(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	switch record.Status {
	case attendance.StatusCheckedIn:
	case attendance.StatusCompleted:
		return attendance.Record{}, fmt.Errorf("%w: record %s", attendance.ErrInvalidState, record.ID)
	default:
		return attendance.Record{}, fmt.Errorf("%w: record %s has status %q", attendance.ErrInvalidState, record.ID, record.Status)
	}

	now := t.clock.Now()
	hours := attendance.WorkedHours(record.CheckIn, now)

	completed, err := t.Repository.Complete(ctx, record.ID, now, hours)
	if err != nil {
		if errors.Is(err, attendance.ErrInvalidState) || errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Record{}, err
		}
		return attendance.Record{}, fmt.Errorf("failed to complete attendance record: %w", err)
	}

	slog.Info("employee checked out", "employee_id", completed.EmployeeID, "record_id", completed.ID, "total_hours", hours)
	return completed, nil
}

func (t *TrackerImpl) GetRecord(ctx context.Context, recordID string) (attendance.Record, error) {
	return t.Repository.GetByID(ctx, recordID)
}

// GetToday returns the most recent record of today, open or completed, or nil.
// Duplicate open sessions yield the newest one together with an
// *InvariantViolationError.
func (t *TrackerImpl) GetToday(ctx context.Context, employeeID string) (*attendance.Record, error) {
	day := t.clock.Today()
	records, err := t.Repository.GetByEmployeeAndDay(ctx, employeeID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	open := make([]attendance.Record, 0, 1)
	for _, r := range records {
		if r.IsOpen() {
			open = append(open, r)
		}
	}
	if len(open) > 1 {
		err := attendance.CheckOpenSessions(employeeID, day, open)
		t.logViolation(err)
		return &open[0], err
	}

	return &records[0], nil
}

func (t *TrackerImpl) GetInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	from, to = clock.DayOf(from), clock.DayOf(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", attendance.ErrInvalidRange, from.Format(clock.DateLayout), to.Format(clock.DateLayout))
	}

	records, err := t.Repository.GetByEmployeeInRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance in range: %w", err)
	}
	return records, nil
}

// GetHistory is GetInRange with the last HistoryDefaultDays as the default window.
func (t *TrackerImpl) GetHistory(ctx context.Context, employeeID string, query attendance.RangeQuery) ([]attendance.Record, error) {
	from, to, err := t.resolveRange(query)
	if err != nil {
		return nil, err
	}
	return t.GetInRange(ctx, employeeID, from, to)
}

// MonthlySummary aggregates the current month up to today.
func (t *TrackerImpl) MonthlySummary(ctx context.Context, employeeID string) (attendance.MonthlySummary, error) {
	today := t.clock.Today()
	records, err := t.GetInRange(ctx, employeeID, clock.FirstOfMonth(today), today)
	if err != nil {
		return attendance.MonthlySummary{}, err
	}

	summary := attendance.MonthlySummary{
		Month:     today.Format("2006-01"),
		TotalDays: len(records),
	}
	for _, r := range records {
		if r.Status == attendance.StatusCompleted {
			summary.PresentDays++
		}
		if r.TotalHours != nil {
			summary.TotalHours += *r.TotalHours
		}
	}
	if summary.PresentDays > 0 {
		summary.AverageHoursPerDay = summary.TotalHours / float64(summary.PresentDays)
	}

	return summary, nil
}

func (t *TrackerImpl) ListAllInRange(ctx context.Context, query attendance.RangeQuery) ([]attendance.Record, error) {
	from, to, err := t.resolveRange(query)
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: %s > %s", attendance.ErrInvalidRange, from.Format(clock.DateLayout), to.Format(clock.DateLayout))
	}

	records, err := t.Repository.GetAllInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (t *TrackerImpl) resolveRange(query attendance.RangeQuery) (time.Time, time.Time, error) {
	if err := query.Validate(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from, to, ok := query.Bounds(); ok {
		return from, to, nil
	}
	today := t.clock.Today()
	return today.AddDate(0, 0, -attendance.HistoryDefaultDays), today, nil
}

func (t *TrackerImpl) logViolation(err error) {
	var violation *attendance.InvariantViolationError
	if errors.As(err, &violation) {
		slog.Error("attendance invariant violated",
			"employee_id", violation.EmployeeID,
			"work_date", violation.Day.Format(clock.DateLayout),
			"record_ids", violation.RecordIDs,
		)
	}
}
