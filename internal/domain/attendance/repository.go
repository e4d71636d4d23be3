package attendance

import (
	"context"
	"time"
)

// Repository persists attendance records. Day arguments are calendar days
// (midnight UTC). Every list is ordered newest first.
type Repository interface {
	// Create fails with ErrAlreadyCheckedIn if an open record exists for the same employee-day.
	Create(ctx context.Context, record Record) (Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) ([]Record, error)
	GetOpenByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) ([]Record, error)
	GetByEmployeeInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
	GetAllInRange(ctx context.Context, from, to time.Time) ([]Record, error)
	// Complete closes an open record. It fails with ErrInvalidState if the record is no longer open.
	Complete(ctx context.Context, id string, checkOut time.Time, totalHours float64) (Record, error)
	FindDuplicateOpenSessions(ctx context.Context) ([]DuplicateOpenSession, error)
}
