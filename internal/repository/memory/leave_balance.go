package memory

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
)

type leaveBalanceRepository struct {
	store *Store
}

func NewLeaveBalanceRepository(store *Store) leave.BalanceRepository {
	return &leaveBalanceRepository{store: store}
}

// GetByEmployeeID implements leave.BalanceRepository.
func (r *leaveBalanceRepository) GetByEmployeeID(ctx context.Context, employeeID string) (leave.Balance, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.balances[employeeID]
	if !ok {
		return leave.Balance{}, fmt.Errorf("%w: employee %s", leave.ErrBalanceNotFound, employeeID)
	}
	return b, nil
}

// CreateIfMissing implements leave.BalanceRepository.
func (r *leaveBalanceRepository) CreateIfMissing(ctx context.Context, b leave.Balance) (leave.Balance, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.balances[b.EmployeeID]; ok {
		return existing, nil
	}

	if b.ID == "" {
		id, err := newID()
		if err != nil {
			return leave.Balance{}, err
		}
		b.ID = id
	}
	now := s.now()
	b.CreatedAt, b.UpdatedAt = now, now
	s.balances[b.EmployeeID] = b

	employeeID := b.EmployeeID
	onRollback(ctx, func() { delete(s.balances, employeeID) })

	return b, nil
}

// AddUsed implements leave.BalanceRepository.
func (r *leaveBalanceRepository) AddUsed(ctx context.Context, employeeID string, leaveType leave.LeaveType, days int) (leave.Balance, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.balances[employeeID]
	if !ok {
		return leave.Balance{}, fmt.Errorf("%w: employee %s", leave.ErrBalanceNotFound, employeeID)
	}

	allotted, used, tracked := before.Counters(leaveType)
	if !tracked {
		return before, nil
	}
	if used+days > allotted {
		return leave.Balance{}, &leave.InsufficientBalanceError{
			EmployeeID: employeeID,
			LeaveType:  leaveType,
			Requested:  days,
			Remaining:  allotted - used,
		}
	}

	after := before.AddUsed(leaveType, days)
	after.UpdatedAt = s.now()
	s.balances[employeeID] = after
	onRollback(ctx, func() { s.balances[employeeID] = before })

	return after, nil
}
