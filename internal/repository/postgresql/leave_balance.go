package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const balanceColumns = `
	id, employee_id, sick_allotted, sick_used, casual_allotted, casual_used,
	earned_allotted, earned_used, created_at, updated_at
`

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

func scanBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.SickAllotted, &b.SickUsed, &b.CasualAllotted, &b.CasualUsed,
		&b.EarnedAllotted, &b.EarnedUsed, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}

// GetByEmployeeID implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + balanceColumns + ` FROM leave_balances WHERE employee_id = $1`

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, fmt.Errorf("%w: employee %s", leave.ErrBalanceNotFound, employeeID)
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return b, nil
}

// CreateIfMissing implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) CreateIfMissing(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	if b.ID == "" {
		id, err := newID()
		if err != nil {
			return leave.Balance{}, err
		}
		b.ID = id
	}

	query := `
		INSERT INTO leave_balances (
			id, employee_id, sick_allotted, sick_used, casual_allotted, casual_used,
			earned_allotted, earned_used
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (employee_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query,
		b.ID, b.EmployeeID, b.SickAllotted, b.SickUsed, b.CasualAllotted, b.CasualUsed,
		b.EarnedAllotted, b.EarnedUsed,
	); err != nil {
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return r.GetByEmployeeID(ctx, b.EmployeeID)
}

// AddUsed implements leave.BalanceRepository.
func (r *leaveBalanceRepositoryImpl) AddUsed(ctx context.Context, employeeID string, leaveType leave.LeaveType, days int) (leave.Balance, error) {
	var query string
	switch leaveType {
	case leave.LeaveTypeSick:
		query = `UPDATE leave_balances SET sick_used = sick_used + $2, updated_at = NOW()
			WHERE employee_id = $1 AND sick_used + $2 <= sick_allotted RETURNING ` + balanceColumns
	case leave.LeaveTypeCasual:
		query = `UPDATE leave_balances SET casual_used = casual_used + $2, updated_at = NOW()
			WHERE employee_id = $1 AND casual_used + $2 <= casual_allotted RETURNING ` + balanceColumns
	case leave.LeaveTypeEarned:
		query = `UPDATE leave_balances SET earned_used = earned_used + $2, updated_at = NOW()
			WHERE employee_id = $1 AND earned_used + $2 <= earned_allotted RETURNING ` + balanceColumns
	default:
		return r.GetByEmployeeID(ctx, employeeID)
	}

	q := GetQuerier(ctx, r.db)
	b, err := scanBalance(q.QueryRow(ctx, query, employeeID, days))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Missing row or the guard refused the debit.
			current, getErr := r.GetByEmployeeID(ctx, employeeID)
			if getErr != nil {
				return leave.Balance{}, getErr
			}
			return leave.Balance{}, &leave.InsufficientBalanceError{
				EmployeeID: employeeID,
				LeaveType:  leaveType,
				Requested:  days,
				Remaining:  current.Remaining(leaveType),
			}
		}
		return leave.Balance{}, fmt.Errorf("failed to add used leave days: %w", err)
	}

	return b, nil
}
