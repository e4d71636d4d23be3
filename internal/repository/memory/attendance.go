package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.Repository {
	return &attendanceRepository{store: store}
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.Status == attendance.StatusCheckedIn {
		for _, row := range s.attendance {
			r := row.record
			if r.EmployeeID == record.EmployeeID && r.WorkDate.Equal(record.WorkDate) && r.IsOpen() {
				return attendance.Record{}, fmt.Errorf("%w: employee %s, record %s", attendance.ErrAlreadyCheckedIn, r.EmployeeID, r.ID)
			}
		}
	}

	if record.ID == "" {
		id, err := newID()
		if err != nil {
			return attendance.Record{}, err
		}
		record.ID = id
	}
	now := s.now()
	record.CreatedAt, record.UpdatedAt = now, now

	s.attendance[record.ID] = attendanceRow{record: record, seq: s.nextSeq()}
	id := record.ID
	onRollback(ctx, func() { delete(s.attendance, id) })

	return record, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.attendance[id]
	if !ok {
		return attendance.Record{}, fmt.Errorf("%w: %s", attendance.ErrAttendanceNotFound, id)
	}
	return row.record, nil
}

// GetByEmployeeAndDay implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.Record, error) {
	return a.filter(func(r attendance.Record) bool {
		return r.EmployeeID == employeeID && r.WorkDate.Equal(day)
	}), nil
}

// GetOpenByEmployeeAndDay implements attendance.Repository.
func (a *attendanceRepository) GetOpenByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) ([]attendance.Record, error) {
	return a.filter(func(r attendance.Record) bool {
		return r.EmployeeID == employeeID && r.WorkDate.Equal(day) && r.IsOpen()
	}), nil
}

// GetByEmployeeInRange implements attendance.Repository.
func (a *attendanceRepository) GetByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	return a.filter(func(r attendance.Record) bool {
		return r.EmployeeID == employeeID && inRange(r.WorkDate, from, to)
	}), nil
}

// GetAllInRange implements attendance.Repository.
func (a *attendanceRepository) GetAllInRange(ctx context.Context, from, to time.Time) ([]attendance.Record, error) {
	return a.filter(func(r attendance.Record) bool {
		return inRange(r.WorkDate, from, to)
	}), nil
}

// Complete implements attendance.Repository.
func (a *attendanceRepository) Complete(ctx context.Context, id string, checkOut time.Time, totalHours float64) (attendance.Record, error) {
	s := a.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.attendance[id]
	if !ok {
		return attendance.Record{}, fmt.Errorf("%w: %s", attendance.ErrAttendanceNotFound, id)
	}
	if !row.record.IsOpen() {
		return attendance.Record{}, fmt.Errorf("%w: record %s", attendance.ErrInvalidState, id)
	}

	before := row
	row.record.CheckOut = &checkOut
	row.record.TotalHours = &totalHours
	row.record.Status = attendance.StatusCompleted
	row.record.UpdatedAt = s.now()
	s.attendance[id] = row
	onRollback(ctx, func() { s.attendance[id] = before })

	return row.record, nil
}

// FindDuplicateOpenSessions implements attendance.Repository.
func (a *attendanceRepository) FindDuplicateOpenSessions(ctx context.Context) ([]attendance.DuplicateOpenSession, error) {
	type key struct {
		employeeID string
		day        time.Time
	}

	open := a.filter(func(r attendance.Record) bool { return r.IsOpen() })
	groups := make(map[key][]string)
	var order []key
	for _, r := range open {
		k := key{employeeID: r.EmployeeID, day: r.WorkDate}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r.ID)
	}

	duplicates := make([]attendance.DuplicateOpenSession, 0)
	for _, k := range order {
		if ids := groups[k]; len(ids) > 1 {
			duplicates = append(duplicates, attendance.DuplicateOpenSession{
				EmployeeID: k.employeeID,
				WorkDate:   k.day,
				RecordIDs:  ids,
			})
		}
	}
	return duplicates, nil
}

// filter returns matching records newest first.
func (a *attendanceRepository) filter(match func(attendance.Record) bool) []attendance.Record {
	s := a.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]attendanceRow, 0)
	for _, row := range s.attendance {
		if match(row.record) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].record.CheckIn.Equal(rows[j].record.CheckIn) {
			return rows[i].record.CheckIn.After(rows[j].record.CheckIn)
		}
		return rows[i].seq > rows[j].seq
	})

	records := make([]attendance.Record, len(rows))
	for i, row := range rows {
		records[i] = row.record
	}
	return records
}

func inRange(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}
