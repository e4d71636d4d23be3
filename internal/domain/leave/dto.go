package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/validator"
)

const maxReasonLength = 1000

type ApplyLeaveRequest struct {
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	LeaveType string `json:"leave_type"`
	Reason    string `json:"reason"`
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FromDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "from_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.FromDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "from_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.ToDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date is required",
		})
	} else if _, ok := validator.IsValidDate(r.ToDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.LeaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	}

	if !validator.MaxLength(r.Reason, maxReasonLength) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ToNewRequest converts a validated body into service input.
func (r *ApplyLeaveRequest) ToNewRequest(employeeID, email string) NewRequest {
	from, _ := validator.IsValidDate(r.FromDate)
	to, _ := validator.IsValidDate(r.ToDate)
	return NewRequest{
		EmployeeID:    employeeID,
		EmployeeEmail: email,
		FromDate:      from,
		ToDate:        to,
		LeaveType:     ParseLeaveType(r.LeaveType),
		Reason:        r.Reason,
	}
}

// NewRequest is the input of Workflow.Apply.
type NewRequest struct {
	EmployeeID    string
	EmployeeEmail string
	FromDate      time.Time
	ToDate        time.Time
	LeaveType     LeaveType
	Reason        string
}

type TypeBalance struct {
	Allotted  int `json:"allotted"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

type BalanceSummary map[LeaveType]TypeBalance

func SummaryOf(b Balance) BalanceSummary {
	summary := make(BalanceSummary, 3)
	for _, t := range TrackedLeaveTypes() {
		allotted, used, _ := b.Counters(t)
		summary[t] = TypeBalance{Allotted: allotted, Used: used, Remaining: allotted - used}
	}
	return summary
}
