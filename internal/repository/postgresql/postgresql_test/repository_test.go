package postgresql_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestAttendanceRepository_OpenSessionLifecycle(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(setup.DB)

	created, err := repo.Create(ctx, attendance.Record{
		EmployeeID: "emp-1",
		WorkDate:   day(3),
		CheckIn:    day(3).Add(9 * time.Hour),
		Status:     attendance.StatusCheckedIn,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	_, err = repo.Create(ctx, attendance.Record{
		EmployeeID: "emp-1",
		WorkDate:   day(3),
		CheckIn:    day(3).Add(10 * time.Hour),
		Status:     attendance.StatusCheckedIn,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	open, err := repo.GetOpenByEmployeeAndDay(ctx, "emp-1", day(3))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, open[0].WorkDate.Equal(day(3)))

	completed, err := repo.Complete(ctx, created.ID, day(3).Add(17*time.Hour+30*time.Minute), 8.5)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCompleted, completed.Status)
	require.NotNil(t, completed.TotalHours)
	assert.Equal(t, 8.5, *completed.TotalHours)

	_, err = repo.Complete(ctx, created.ID, day(3).Add(18*time.Hour), 9)
	assert.ErrorIs(t, err, attendance.ErrInvalidState)

	_, err = repo.Complete(ctx, "0195a7c0-0000-7000-8000-000000000000", day(3), 0)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	// a new session on the same day is allowed once the first is closed
	_, err = repo.Create(ctx, attendance.Record{
		EmployeeID: "emp-1",
		WorkDate:   day(3),
		CheckIn:    day(3).Add(19 * time.Hour),
		Status:     attendance.StatusCheckedIn,
	})
	require.NoError(t, err)

	records, err := repo.GetByEmployeeInRange(ctx, "emp-1", day(1), day(3))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].CheckIn.After(records[1].CheckIn))

	duplicates, err := repo.FindDuplicateOpenSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, duplicates)
}

func TestLeaveBalanceRepository_AddUsedGuard(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveBalanceRepository(setup.DB)

	_, err := repo.GetByEmployeeID(ctx, "emp-1")
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)

	b, err := repo.CreateIfMissing(ctx, leave.NewBalance("emp-1", leave.DefaultAllotment()))
	require.NoError(t, err)

	again, err := repo.CreateIfMissing(ctx, leave.NewBalance("emp-1", leave.Allotment{Sick: 99}))
	require.NoError(t, err)
	assert.Equal(t, b.ID, again.ID)
	assert.Equal(t, 10, again.SickAllotted)

	updated, err := repo.AddUsed(ctx, "emp-1", leave.LeaveTypeSick, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.SickUsed)

	_, err = repo.AddUsed(ctx, "emp-1", leave.LeaveTypeSick, 4)
	var insufficient *leave.InsufficientBalanceError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3, insufficient.Remaining)

	current, err := repo.GetByEmployeeID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 7, current.SickUsed)
}

func TestLeaveBalanceRepository_ConcurrentDebits(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveBalanceRepository(setup.DB)

	_, err := repo.CreateIfMissing(ctx, leave.NewBalance("emp-1", leave.DefaultAllotment()))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.AddUsed(ctx, "emp-1", leave.LeaveTypeCasual, 3); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	current, err := repo.GetByEmployeeID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 9, current.CasualUsed)
}

func TestLeaveRequestRepository_StatusTransition(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRequestRepository(setup.DB)

	created, err := repo.Create(ctx, leave.Request{
		EmployeeID: "emp-1",
		FromDate:   day(10),
		ToDate:     day(12),
		LeaveType:  leave.LeaveTypeEarned,
		Reason:     "family trip",
		Status:     leave.RequestStatusPending,
		AppliedOn:  day(3),
	})
	require.NoError(t, err)

	pending, err := repo.GetByStatus(ctx, leave.RequestStatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 3, pending[0].Days())

	approved, err := repo.UpdateStatus(ctx, created.ID, leave.RequestStatusPending, leave.RequestStatusApproved, day(4))
	require.NoError(t, err)
	assert.Equal(t, leave.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedAt)

	_, err = repo.UpdateStatus(ctx, created.ID, leave.RequestStatusPending, leave.RequestStatusRejected, day(4))
	assert.ErrorIs(t, err, leave.ErrInvalidState)

	mine, err := repo.GetByEmployeeID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestTransactor_RollsBack(t *testing.T) {
	setup := NewTestDatabase(t)
	ctx := context.Background()
	balances := postgresql.NewLeaveBalanceRepository(setup.DB)
	tx := postgresql.NewTransactor(setup.DB)

	_, err := balances.CreateIfMissing(ctx, leave.NewBalance("emp-1", leave.DefaultAllotment()))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := balances.AddUsed(ctx, "emp-1", leave.LeaveTypeEarned, 5); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	current, err := balances.GetByEmployeeID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 0, current.EarnedUsed)
}
