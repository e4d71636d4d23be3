package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	CheckOutRecord(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	tracker attendance.Tracker
}

func NewAttendanceHandler(tracker attendance.Tracker) AttendanceHandler {
	return &attendanceHandlerImpl{
		tracker: tracker,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.tracker.CheckIn(r.Context(), identity.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", record)
}

// CheckOut closes the caller's open session for today.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.tracker.CheckOutToday(r.Context(), identity.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// CheckOutRecord closes a specific record. Employees may only close their own.
func (h *attendanceHandlerImpl) CheckOutRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		response.HandleError(w, attendance.ErrAttendanceNotFound)
		return
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	existing, err := h.tracker.GetRecord(ctx, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if existing.EmployeeID != identity.EmployeeID && !identity.IsAdmin {
		response.HandleError(w, attendance.ErrAttendanceNotFound)
		return
	}

	record, err := h.tracker.CheckOut(ctx, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", record)
}

// GetToday implements AttendanceHandler. Data is null when there is no record today.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	record, err := h.tracker.GetToday(r.Context(), identity.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, record)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	query := rangeQueryFrom(r)
	records, err := h.tracker.GetHistory(r.Context(), identity.EmployeeID, query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{Count: len(records), From: query.From, To: query.To})
}

// GetSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.tracker.MonthlySummary(r.Context(), identity.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// List implements AttendanceHandler. Admin view across employees.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := rangeQueryFrom(r)
	records, err := h.tracker.ListAllInRange(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{Count: len(records), From: query.From, To: query.To})
}

// pathID returns the {id} URL param and whether it can name a stored record.
func pathID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	return id, validator.IsValidUUID(id)
}

func rangeQueryFrom(r *http.Request) attendance.RangeQuery {
	return attendance.RangeQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
}
