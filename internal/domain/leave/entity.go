package leave

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/clock"
)

type LeaveType string

const (
	LeaveTypeSick   LeaveType = "SICK"
	LeaveTypeCasual LeaveType = "CASUAL"
	LeaveTypeEarned LeaveType = "EARNED"
	LeaveTypeUnpaid LeaveType = "UNPAID"
)

// TrackedLeaveTypes are the types that draw from a balance.
func TrackedLeaveTypes() []LeaveType {
	return []LeaveType{LeaveTypeSick, LeaveTypeCasual, LeaveTypeEarned}
}

// ParseLeaveType maps s onto the closed set ignoring case, so "Sick", "sick"
// and "SICK" are all LeaveTypeSick. Unrecognised input is returned as is.
func ParseLeaveType(s string) LeaveType {
	s = strings.TrimSpace(s)
	for _, t := range []LeaveType{LeaveTypeSick, LeaveTypeCasual, LeaveTypeEarned, LeaveTypeUnpaid} {
		if strings.EqualFold(s, string(t)) {
			return t
		}
	}
	return LeaveType(s)
}

// Tracked reports whether t draws from a balance. known is false for
// values outside the closed set.
func (t LeaveType) Tracked() (tracked bool, known bool) {
	switch t {
	case LeaveTypeSick, LeaveTypeCasual, LeaveTypeEarned:
		return true, true
	case LeaveTypeUnpaid:
		return false, true
	default:
		return false, false
	}
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

type Allotment struct {
	Sick   int
	Casual int
	Earned int
}

func DefaultAllotment() Allotment {
	return Allotment{Sick: 10, Casual: 10, Earned: 10}
}

type Balance struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employee_id"`
	SickAllotted   int       `json:"sick_allotted"`
	SickUsed       int       `json:"sick_used"`
	CasualAllotted int       `json:"casual_allotted"`
	CasualUsed     int       `json:"casual_used"`
	EarnedAllotted int       `json:"earned_allotted"`
	EarnedUsed     int       `json:"earned_used"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewBalance(employeeID string, a Allotment) Balance {
	return Balance{
		EmployeeID:     employeeID,
		SickAllotted:   a.Sick,
		CasualAllotted: a.Casual,
		EarnedAllotted: a.Earned,
	}
}

// Counters returns allotted and used for a tracked type; ok is false otherwise.
func (b Balance) Counters(t LeaveType) (allotted, used int, ok bool) {
	switch t {
	case LeaveTypeSick:
		return b.SickAllotted, b.SickUsed, true
	case LeaveTypeCasual:
		return b.CasualAllotted, b.CasualUsed, true
	case LeaveTypeEarned:
		return b.EarnedAllotted, b.EarnedUsed, true
	default:
		return 0, 0, false
	}
}

func (b Balance) Remaining(t LeaveType) int {
	allotted, used, _ := b.Counters(t)
	return allotted - used
}

// AddUsed returns b with days added to t's used counter. Untracked types are ignored.
func (b Balance) AddUsed(t LeaveType, days int) Balance {
	switch t {
	case LeaveTypeSick:
		b.SickUsed += days
	case LeaveTypeCasual:
		b.CasualUsed += days
	case LeaveTypeEarned:
		b.EarnedUsed += days
	}
	return b
}

type Request struct {
	ID            string        `json:"id"`
	EmployeeID    string        `json:"employee_id"`
	EmployeeEmail string        `json:"employee_email"`
	FromDate      time.Time     `json:"from_date"`
	ToDate        time.Time     `json:"to_date"`
	LeaveType     LeaveType     `json:"leave_type"`
	Reason        string        `json:"reason"`
	Status        RequestStatus `json:"status"`
	AppliedOn     time.Time     `json:"applied_on"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Days is the inclusive length of the requested period.
func (r Request) Days() int {
	return clock.DaysInclusive(r.FromDate, r.ToDate)
}
