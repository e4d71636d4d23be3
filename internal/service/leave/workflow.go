package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/clock"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/keylock"
)

type WorkflowImpl struct {
	leave.RequestRepository
	ledger  leave.Ledger
	tx      database.Transactor
	emitter notification.Emitter
	clock   clock.Clock
	locks   *keylock.Locker
}

func NewWorkflow(
	requestRepository leave.RequestRepository,
	ledger leave.Ledger,
	tx database.Transactor,
	emitter notification.Emitter,
	clk clock.Clock,
) leave.Workflow {
	return &WorkflowImpl{
		RequestRepository: requestRepository,
		ledger:            ledger,
		tx:                tx,
		emitter:           emitter,
		clock:             clk,
		locks:             keylock.New(),
	}
}

// Apply files a PENDING request. Balance is checked but not debited.
func (w *WorkflowImpl) Apply(ctx context.Context, req leave.NewRequest) (leave.Request, error) {
	from, to := clock.DayOf(req.FromDate), clock.DayOf(req.ToDate)
	if from.After(to) {
		return leave.Request{}, fmt.Errorf("%w: %s > %s", leave.ErrInvalidRange, from.Format(clock.DateLayout), to.Format(clock.DateLayout))
	}

	request := leave.Request{
		EmployeeID:    req.EmployeeID,
		EmployeeEmail: req.EmployeeEmail,
		FromDate:      from,
		ToDate:        to,
		LeaveType:     leave.ParseLeaveType(string(req.LeaveType)),
		Reason:        req.Reason,
		Status:        leave.RequestStatusPending,
		AppliedOn:     w.clock.Today(),
	}

	if err := w.ensureSufficient(ctx, request.EmployeeID, request.LeaveType, request.Days()); err != nil {
		return leave.Request{}, err
	}

	created, err := w.RequestRepository.Create(ctx, request)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("leave request applied", "request_id", created.ID, "employee_id", created.EmployeeID,
		"leave_type", created.LeaveType, "days", created.Days())
	return created, nil
}

// Approve re-validates against the current balance, then marks the request
// APPROVED and debits the ledger in one transaction. Approvals for the same
// employee run one at a time.
func (w *WorkflowImpl) Approve(ctx context.Context, requestID string) (leave.Request, error) {
	request, err := w.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.Request{}, err
	}

	unlock, err := w.locks.Lock(ctx, request.EmployeeID)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to acquire leave lock: %w", err)
	}
	defer unlock()

	var approved leave.Request
	err = w.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := w.RequestRepository.GetByID(ctx, requestID)
		if err != nil {
			return err
		}

		switch current.Status {
		case leave.RequestStatusPending:
		case leave.RequestStatusApproved:
			return fmt.Errorf("%w: request %s", leave.ErrAlreadyApproved, requestID)
		case leave.RequestStatusRejected:
			return fmt.Errorf("%w: request %s is %s", leave.ErrInvalidState, requestID, current.Status)
		default:
			return fmt.Errorf("%w: request %s has status %q", leave.ErrInvalidState, requestID, current.Status)
		}

		days := current.Days()
		if err := w.ensureSufficient(ctx, current.EmployeeID, current.LeaveType, days); err != nil {
			return err
		}

		approved, err = w.RequestRepository.UpdateStatus(ctx, requestID, leave.RequestStatusPending, leave.RequestStatusApproved, w.clock.Now())
		if err != nil {
			return err
		}

		return w.ledger.Debit(ctx, current.EmployeeID, current.LeaveType, days)
	})
	if err != nil {
		return leave.Request{}, err
	}

	slog.Info("leave request approved", "request_id", approved.ID, "employee_id", approved.EmployeeID,
		"leave_type", approved.LeaveType, "days", approved.Days())
	w.emitter.Emit(ctx, notification.NewLeaveDecision(
		notification.KindLeaveApproved, approved.EmployeeID, approved.ID, approved.FromDate, approved.ToDate, w.clock.Now(),
	))

	return approved, nil
}

// Reject closes a PENDING request without touching the ledger.
func (w *WorkflowImpl) Reject(ctx context.Context, requestID string) (leave.Request, error) {
	request, err := w.RequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.Request{}, err
	}

	unlock, err := w.locks.Lock(ctx, request.EmployeeID)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to acquire leave lock: %w", err)
	}
	defer unlock()

	switch request.Status {
	case leave.RequestStatusPending:
	case leave.RequestStatusApproved, leave.RequestStatusRejected:
		return leave.Request{}, fmt.Errorf("%w: request %s is %s", leave.ErrInvalidState, requestID, request.Status)
	default:
		return leave.Request{}, fmt.Errorf("%w: request %s has status %q", leave.ErrInvalidState, requestID, request.Status)
	}

	rejected, err := w.RequestRepository.UpdateStatus(ctx, requestID, leave.RequestStatusPending, leave.RequestStatusRejected, w.clock.Now())
	if err != nil {
		return leave.Request{}, err
	}

	slog.Info("leave request rejected", "request_id", rejected.ID, "employee_id", rejected.EmployeeID)
	w.emitter.Emit(ctx, notification.NewLeaveDecision(
		notification.KindLeaveRejected, rejected.EmployeeID, rejected.ID, rejected.FromDate, rejected.ToDate, w.clock.Now(),
	))

	return rejected, nil
}

func (w *WorkflowImpl) GetByID(ctx context.Context, requestID string) (leave.Request, error) {
	return w.RequestRepository.GetByID(ctx, requestID)
}

func (w *WorkflowImpl) GetUserLeaves(ctx context.Context, employeeID string) ([]leave.Request, error) {
	requests, err := w.RequestRepository.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave requests: %w", err)
	}
	return requests, nil
}

func (w *WorkflowImpl) GetAllPending(ctx context.Context) ([]leave.Request, error) {
	requests, err := w.RequestRepository.GetByStatus(ctx, leave.RequestStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending leave requests: %w", err)
	}
	return requests, nil
}

func (w *WorkflowImpl) GetAll(ctx context.Context) ([]leave.Request, error) {
	requests, err := w.RequestRepository.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leave requests: %w", err)
	}
	return requests, nil
}

func (w *WorkflowImpl) GetBalanceSummary(ctx context.Context, employeeID string) (leave.BalanceSummary, error) {
	return w.ledger.Summary(ctx, employeeID)
}

func (w *WorkflowImpl) ensureSufficient(ctx context.Context, employeeID string, leaveType leave.LeaveType, days int) error {
	ok, err := w.ledger.HasSufficientBalance(ctx, employeeID, leaveType, days)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	balance, err := w.ledger.GetOrInitialize(ctx, employeeID)
	if err != nil {
		return err
	}
	return &leave.InsufficientBalanceError{
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		Requested:  days,
		Remaining:  balance.Remaining(leaveType),
	}
}
