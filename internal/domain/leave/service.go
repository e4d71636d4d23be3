package leave

import (
	"context"
)

type Ledger interface {
	GetOrInitialize(ctx context.Context, employeeID string) (Balance, error)
	HasSufficientBalance(ctx context.Context, employeeID string, leaveType LeaveType, days int) (bool, error)
	Debit(ctx context.Context, employeeID string, leaveType LeaveType, days int) error
	Summary(ctx context.Context, employeeID string) (BalanceSummary, error)
}

type Workflow interface {
	Apply(ctx context.Context, req NewRequest) (Request, error)
	Approve(ctx context.Context, requestID string) (Request, error)
	Reject(ctx context.Context, requestID string) (Request, error)
	GetByID(ctx context.Context, requestID string) (Request, error)
	GetUserLeaves(ctx context.Context, employeeID string) ([]Request, error)
	GetAllPending(ctx context.Context) ([]Request, error)
	GetAll(ctx context.Context) ([]Request, error)
	GetBalanceSummary(ctx context.Context, employeeID string) (BalanceSummary, error)
}
