package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()

	var a, b int32
	s.AddJob("a", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&a, 1)
		return nil
	})
	s.AddJob("b", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&b, 1)
		return errors.New("boom")
	})

	s.RunOnce(context.Background())

	assert.Equal(t, int32(1), atomic.LoadInt32(&a))
	assert.Equal(t, int32(1), atomic.LoadInt32(&b))
	assert.Equal(t, []string{"a", "b"}, s.jobNames())
}

func TestScheduler_RunExecutesImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()

	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

type duplicateRepo struct {
	attendance.Repository
	duplicates []attendance.DuplicateOpenSession
	err        error
}

func (d *duplicateRepo) FindDuplicateOpenSessions(ctx context.Context) ([]attendance.DuplicateOpenSession, error) {
	return d.duplicates, d.err
}

func TestAttendanceJobs_AuditOpenSessions(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	repo := &duplicateRepo{duplicates: []attendance.DuplicateOpenSession{
		{EmployeeID: "emp-1", WorkDate: day, RecordIDs: []string{"r1", "r2"}},
	}}
	jobs := NewAttendanceJobs(repo, clock.NewFixed(day))

	found, err := jobs.findDuplicateOpenSessions(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "emp-1", found[0].EmployeeID)

	assert.NoError(t, jobs.AuditOpenSessions(context.Background()))
}

func TestAttendanceJobs_AuditOpenSessionsError(t *testing.T) {
	repo := &duplicateRepo{err: errors.New("db down")}
	jobs := NewAttendanceJobs(repo, clock.NewFixed(time.Now()))

	assert.Error(t, jobs.AuditOpenSessions(context.Background()))
}

func TestAttendanceJobs_ReportStaleSessions(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewAttendanceRepository(memory.NewStore())

	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	twoDaysAgo := today.AddDate(0, 0, -2)

	_, err := repo.Create(ctx, attendance.Record{
		EmployeeID: "emp-1", WorkDate: yesterday, CheckIn: yesterday.Add(9 * time.Hour), Status: attendance.StatusCheckedIn,
	})
	require.NoError(t, err)

	closed, err := repo.Create(ctx, attendance.Record{
		EmployeeID: "emp-2", WorkDate: twoDaysAgo, CheckIn: twoDaysAgo.Add(9 * time.Hour), Status: attendance.StatusCheckedIn,
	})
	require.NoError(t, err)
	_, err = repo.Complete(ctx, closed.ID, twoDaysAgo.Add(17*time.Hour), 8)
	require.NoError(t, err)

	// today's open session is not stale
	_, err = repo.Create(ctx, attendance.Record{
		EmployeeID: "emp-3", WorkDate: today, CheckIn: today.Add(9 * time.Hour), Status: attendance.StatusCheckedIn,
	})
	require.NoError(t, err)

	jobs := NewAttendanceJobs(repo, clock.NewFixed(today.Add(12*time.Hour)))

	stale, err := jobs.findStaleSessions(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "emp-1", stale[0].EmployeeID)
}

func TestAttendanceJobs_RegisterJobs(t *testing.T) {
	s := NewScheduler()
	NewAttendanceJobs(&duplicateRepo{}, clock.NewFixed(time.Now())).RegisterJobs(s, time.Hour)

	assert.Equal(t, []string{JobOpenSessionAudit, JobStaleSessionAudit}, s.jobNames())
}
