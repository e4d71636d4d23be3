package attendance

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrAlreadyCheckedIn   = errors.New("employee already has an open attendance session today")
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNotCheckedIn       = errors.New("no open attendance session today")
	ErrInvalidState       = errors.New("attendance record is already completed")
	ErrInvalidRange       = errors.New("from date must not be after to date")
	ErrInvariantViolation = errors.New("more than one open attendance session for the same day")
)

// InvariantViolationError reports duplicate open sessions found in storage.
// The first id is the authoritative (most recently created) record.
type InvariantViolationError struct {
	EmployeeID string
	Day        time.Time
	RecordIDs  []string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: employee %s on %s (records %s)",
		ErrInvariantViolation, e.EmployeeID, e.Day.Format("2006-01-02"), strings.Join(e.RecordIDs, ", "))
}

func (e *InvariantViolationError) Unwrap() error {
	return ErrInvariantViolation
}

func newInvariantViolation(employeeID string, day time.Time, records []Record) error {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return &InvariantViolationError{EmployeeID: employeeID, Day: day, RecordIDs: ids}
}

// CheckOpenSessions classifies the open records of one employee-day:
// none is fine, one means already checked in, more is a storage fault.
func CheckOpenSessions(employeeID string, day time.Time, open []Record) error {
	switch len(open) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w: employee %s, record %s", ErrAlreadyCheckedIn, employeeID, open[0].ID)
	default:
		return newInvariantViolation(employeeID, day, open)
	}
}
