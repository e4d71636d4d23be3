package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
)

type LedgerImpl struct {
	leave.BalanceRepository
	allotment leave.Allotment
}

func NewLedger(balanceRepository leave.BalanceRepository, allotment leave.Allotment) leave.Ledger {
	return &LedgerImpl{
		BalanceRepository: balanceRepository,
		allotment:         allotment,
	}
}

// GetOrInitialize returns the employee's balance, creating the default one on first use.
func (l *LedgerImpl) GetOrInitialize(ctx context.Context, employeeID string) (leave.Balance, error) {
	balance, err := l.BalanceRepository.GetByEmployeeID(ctx, employeeID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	balance, err = l.BalanceRepository.CreateIfMissing(ctx, leave.NewBalance(employeeID, l.allotment))
	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to initialize leave balance: %w", err)
	}

	slog.Info("leave balance initialized", "employee_id", employeeID,
		"sick", balance.SickAllotted, "casual", balance.CasualAllotted, "earned", balance.EarnedAllotted)
	return balance, nil
}

func (l *LedgerImpl) HasSufficientBalance(ctx context.Context, employeeID string, leaveType leave.LeaveType, days int) (bool, error) {
	if !l.draws(employeeID, leaveType) {
		return true, nil
	}

	balance, err := l.GetOrInitialize(ctx, employeeID)
	if err != nil {
		return false, err
	}
	return balance.Remaining(leaveType) >= days, nil
}

// Debit adds days to the used counter. The repository refuses to push used
// past allotted, so a stale sufficiency check can never overdraw.
func (l *LedgerImpl) Debit(ctx context.Context, employeeID string, leaveType leave.LeaveType, days int) error {
	if !l.draws(employeeID, leaveType) {
		return nil
	}
	if days < 0 {
		return fmt.Errorf("cannot debit %d days", days)
	}

	if _, err := l.GetOrInitialize(ctx, employeeID); err != nil {
		return err
	}

	balance, err := l.BalanceRepository.AddUsed(ctx, employeeID, leaveType, days)
	if err != nil {
		var insufficient *leave.InsufficientBalanceError
		if errors.As(err, &insufficient) {
			return err
		}
		return fmt.Errorf("failed to debit leave balance: %w", err)
	}

	slog.Info("leave balance debited", "employee_id", employeeID, "leave_type", leaveType,
		"days", days, "remaining", balance.Remaining(leaveType))
	return nil
}

func (l *LedgerImpl) Summary(ctx context.Context, employeeID string) (leave.BalanceSummary, error) {
	balance, err := l.GetOrInitialize(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return leave.SummaryOf(balance), nil
}

// draws reports whether leaveType is charged against a balance. Unknown
// types are let through uncharged and logged.
func (l *LedgerImpl) draws(employeeID string, leaveType leave.LeaveType) bool {
	tracked, known := leaveType.Tracked()
	if !known {
		slog.Warn("unrecognized leave type treated as unlimited", "employee_id", employeeID, "leave_type", leaveType)
	}
	return tracked
}
