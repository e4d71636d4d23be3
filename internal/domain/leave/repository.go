package leave

import (
	"context"
	"time"
)

type BalanceRepository interface {
	GetByEmployeeID(ctx context.Context, employeeID string) (Balance, error)
	// CreateIfMissing inserts b unless the employee already has a balance, and returns the stored row.
	CreateIfMissing(ctx context.Context, b Balance) (Balance, error)
	// AddUsed fails with ErrInsufficientBalance instead of letting used exceed allotted.
	AddUsed(ctx context.Context, employeeID string, leaveType LeaveType, days int) (Balance, error)
}

type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	// Lists are ordered by applied_on, newest first.
	GetByEmployeeID(ctx context.Context, employeeID string) ([]Request, error)
	GetByStatus(ctx context.Context, status RequestStatus) ([]Request, error)
	GetAll(ctx context.Context) ([]Request, error)
	// UpdateStatus moves a request out of from. It fails with ErrInvalidState if the
	// stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to RequestStatus, decidedAt time.Time) (Request, error)
}
