package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const openSessionConstraint = "uq_attendance_records_open_session"

const attendanceColumns = `
	id, employee_id, work_date, check_in, check_out, total_hours, status, created_at, updated_at
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.WorkDate, &rec.CheckIn, &rec.CheckOut,
		&rec.TotalHours, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...any) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Record, 0)
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	if record.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Record{}, err
		}
		record.ID = id
	}

	query := `
		INSERT INTO attendance_records (id, employee_id, work_date, check_in, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.WorkDate,
		record.CheckIn,
		record.Status,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == openSessionConstraint {
			return attendance.Record{}, fmt.Errorf("%w: employee %s", attendance.ErrAlreadyCheckedIn, record.EmployeeID)
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_records WHERE id = $1`

	rec, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, fmt.Errorf("%w: %s", attendance.ErrAttendanceNotFound, id)
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDay implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND work_date = $2
		ORDER BY check_in DESC, id DESC
	`
	return a.list(ctx, query, employeeID, day)
}

// GetOpenByEmployeeAndDay implements attendance.Repository.
func (a *attendanceRepository) GetOpenByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND work_date = $2 AND status = 'CHECKED_IN'
		ORDER BY check_in DESC, id DESC
	`
	return a.list(ctx, query, employeeID, day)
}

// GetByEmployeeInRange implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND work_date BETWEEN $2 AND $3
		ORDER BY check_in DESC, id DESC
	`
	return a.list(ctx, query, employeeID, from, to)
}

// GetAllInRange implements attendance.Repository.
func (a *attendanceRepository) GetAllInRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance_records
		WHERE work_date BETWEEN $1 AND $2
		ORDER BY check_in DESC, id DESC
	`
	return a.list(ctx, query, from, to)
}

// Complete implements attendance.Repository.
func (a *attendanceRepository) Complete(ctx context.Context, id string, checkOut time.Time, totalHours float64) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_records
		SET check_out = $2, total_hours = $3, status = 'COMPLETED', updated_at = NOW()
		WHERE id = $1 AND status = 'CHECKED_IN'
		RETURNING ` + attendanceColumns

	rec, err := scanAttendance(q.QueryRow(ctx, query, id, checkOut, totalHours))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either missing or no longer open; tell them apart for the caller.
			if _, getErr := a.GetByID(ctx, id); getErr != nil {
				return attendance.Record{}, getErr
			}
			return attendance.Record{}, fmt.Errorf("%w: record %s", attendance.ErrInvalidState, id)
		}
		return attendance.Record{}, fmt.Errorf("failed to complete attendance record: %w", err)
	}

	return rec, nil
}

// FindDuplicateOpenSessions implements attendance.Repository.
func (a *attendanceRepository) FindDuplicateOpenSessions(ctx context.Context) ([]attendance.DuplicateOpenSession, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT employee_id, work_date,
			   array_agg(id::text ORDER BY check_in DESC, id DESC) AS record_ids
		FROM attendance_records
		WHERE status = 'CHECKED_IN'
		GROUP BY employee_id, work_date
		HAVING COUNT(*) > 1
		ORDER BY work_date DESC, employee_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query duplicate open sessions: %w", err)
	}
	defer rows.Close()

	duplicates := make([]attendance.DuplicateOpenSession, 0)
	for rows.Next() {
		var d attendance.DuplicateOpenSession
		if err := rows.Scan(&d.EmployeeID, &d.WorkDate, &d.RecordIDs); err != nil {
			return nil, fmt.Errorf("failed to scan duplicate open session: %w", err)
		}
		duplicates = append(duplicates, d)
	}

	return duplicates, rows.Err()
}
