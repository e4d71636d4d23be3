package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var insufficient *leave.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		BadRequest(w, "Insufficient leave balance", map[string]string{
			"leave_type": string(insufficient.LeaveType),
			"requested":  strconv.Itoa(insufficient.Requested),
			"remaining":  strconv.Itoa(insufficient.Remaining),
		})
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaim):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, jwt.ErrAdminOnly):
		Forbidden(w, "Admin privilege required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvariantViolation):
		slog.Error("attendance invariant violation", "error", err)
		InvariantViolation(w, "Attendance data is inconsistent, please contact an administrator")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		NotFound(w, "No open attendance session today")
	case errors.Is(err, attendance.ErrInvalidState):
		Conflict(w, "Attendance record is already checked out")
	case errors.Is(err, attendance.ErrInvalidRange):
		UnprocessableEntity(w, "INVALID_RANGE", "From date must not be after to date")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrAlreadyApproved):
		Conflict(w, "Leave request already approved")
	case errors.Is(err, leave.ErrInvalidState):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrInvalidRange):
		UnprocessableEntity(w, "INVALID_RANGE", "From date must not be after to date")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
