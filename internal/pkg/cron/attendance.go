package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/clock"
)

const (
	JobOpenSessionAudit  = "attendance_open_session_audit"
	JobStaleSessionAudit = "attendance_stale_session_audit"

	// staleLookbackDays bounds how far back the stale session report scans.
	staleLookbackDays = 7
)

// AttendanceJobs reports attendance data the tracker itself never produces:
// more than one open session per employee-day, and sessions left open past their day.
type AttendanceJobs struct {
	attendanceRepo attendance.Repository
	clock          clock.Clock
}

func NewAttendanceJobs(attendanceRepo attendance.Repository, clk clock.Clock) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		clock:          clk,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(JobOpenSessionAudit, interval, j.AuditOpenSessions)
	scheduler.AddJob(JobStaleSessionAudit, interval, j.ReportStaleSessions)
}

func (j *AttendanceJobs) AuditOpenSessions(ctx context.Context) error {
	_, err := j.findDuplicateOpenSessions(ctx)
	return err
}

func (j *AttendanceJobs) findDuplicateOpenSessions(ctx context.Context) ([]attendance.DuplicateOpenSession, error) {
	duplicates, err := j.attendanceRepo.FindDuplicateOpenSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan open sessions: %w", err)
	}

	for _, d := range duplicates {
		slog.Error("Cron: invariant violation, multiple open sessions",
			"employee_id", d.EmployeeID,
			"work_date", d.WorkDate.Format(clock.DateLayout),
			"record_ids", d.RecordIDs,
		)
	}

	if len(duplicates) == 0 {
		slog.Debug("Cron: no duplicate open sessions found")
	}
	return duplicates, nil
}

func (j *AttendanceJobs) ReportStaleSessions(ctx context.Context) error {
	_, err := j.findStaleSessions(ctx)
	return err
}

// findStaleSessions lists sessions from earlier days that were never checked out.
func (j *AttendanceJobs) findStaleSessions(ctx context.Context) ([]attendance.Record, error) {
	today := j.clock.Today()
	from := today.AddDate(0, 0, -staleLookbackDays)
	to := today.AddDate(0, 0, -1)

	records, err := j.attendanceRepo.GetAllInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}

	var stale []attendance.Record
	for _, r := range records {
		if !r.IsOpen() {
			continue
		}
		stale = append(stale, r)
		slog.Warn("Cron: attendance session left open",
			"record_id", r.ID,
			"employee_id", r.EmployeeID,
			"work_date", r.WorkDate.Format(clock.DateLayout),
			"check_in", r.CheckIn,
		)
	}

	if len(stale) > 0 {
		slog.Info("Cron: stale attendance sessions found", "count", len(stale))
	}
	return stale, nil
}
