package attendance

import (
	"time"
)

type Status string

const (
	StatusCheckedIn Status = "CHECKED_IN"
	StatusCompleted Status = "COMPLETED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusCheckedIn, StatusCompleted:
		return true
	default:
		return false
	}
}

// Record is one work session. WorkDate is the calendar day of CheckIn and is
// the key for the one-open-session-per-day rule.
type Record struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	WorkDate   time.Time  `json:"work_date"`
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
	TotalHours *float64   `json:"total_hours,omitempty"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (r Record) IsOpen() bool {
	return r.Status == StatusCheckedIn
}

// WorkedHours converts a session length to fractional hours using whole seconds.
func WorkedHours(checkIn, checkOut time.Time) float64 {
	seconds := int64(checkOut.Sub(checkIn) / time.Second)
	return float64(seconds) / 3600
}

// DuplicateOpenSession describes a (employee, day) pair that holds more than
// one CHECKED_IN record. RecordIDs are newest first.
type DuplicateOpenSession struct {
	EmployeeID string    `json:"employee_id"`
	WorkDate   time.Time `json:"work_date"`
	RecordIDs  []string  `json:"record_ids"`
}
