package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrAlreadyApproved      = errors.New("leave request already approved")
	ErrInvalidState         = errors.New("leave request is not pending")
	ErrInvalidRange         = errors.New("from date must not be after to date")
)

type InsufficientBalanceError struct {
	EmployeeID string
	LeaveType  LeaveType
	Requested  int
	Remaining  int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: employee %s requested %d %s day(s), %d remaining",
		ErrInsufficientBalance, e.EmployeeID, e.Requested, e.LeaveType, e.Remaining)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
