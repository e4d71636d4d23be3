package notification

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindLeaveApproved Kind = "leave_approved"
	KindLeaveRejected Kind = "leave_rejected"
)

type Priority string

const (
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const CategoryLeave = "leave"

const ActionViewDetails = "View Details"

// Event is a lifecycle fact handed to the emitter. Title and Description are
// filled in by the dispatcher from Kind and Params before delivery.
type Event struct {
	ID          string            `json:"id"`
	Kind        Kind              `json:"kind"`
	EmployeeID  string            `json:"employee_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Priority    Priority          `json:"priority"`
	Actions     []string          `json:"actions"`
	RequestID   string            `json:"request_id,omitempty"`
	Params      map[string]string `json:"params,omitempty"`
	OccurredAt  time.Time         `json:"occurred_at"`
}

// NewLeaveDecision builds the event for an approved or rejected leave request.
func NewLeaveDecision(kind Kind, employeeID, requestID string, from, to, at time.Time) Event {
	priority := PriorityMedium
	if kind == KindLeaveRejected {
		priority = PriorityHigh
	}
	return Event{
		ID:         uuid.NewString(),
		Kind:       kind,
		EmployeeID: employeeID,
		Category:   CategoryLeave,
		Priority:   priority,
		Actions:    []string{ActionViewDetails},
		RequestID:  requestID,
		Params: map[string]string{
			"FromDate": from.Format("2006-01-02"),
			"ToDate":   to.Format("2006-01-02"),
		},
		OccurredAt: at,
	}
}
