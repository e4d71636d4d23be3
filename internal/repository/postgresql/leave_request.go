package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const requestColumns = `
	id, employee_id, employee_email, from_date, to_date, leave_type, reason,
	status, applied_on, decided_at, created_at, updated_at
`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.EmployeeEmail, &req.FromDate, &req.ToDate, &req.LeaveType, &req.Reason,
		&req.Status, &req.AppliedOn, &req.DecidedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *leaveRequestRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	requests := make([]leave.Request, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		id, err := newID()
		if err != nil {
			return leave.Request{}, err
		}
		request.ID = id
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, employee_email, from_date, to_date, leave_type, reason, status, applied_on
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		request.EmployeeEmail,
		request.FromDate,
		request.ToDate,
		request.LeaveType,
		request.Reason,
		request.Status,
		request.AppliedOn,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + requestColumns + ` FROM leave_requests WHERE id = $1`

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, fmt.Errorf("%w: %s", leave.ErrLeaveRequestNotFound, id)
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return req, nil
}

// GetByEmployeeID implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string) ([]leave.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		ORDER BY applied_on DESC, id DESC
	`
	return r.list(ctx, query, employeeID)
}

// GetByStatus implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetByStatus(ctx context.Context, status leave.RequestStatus) ([]leave.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM leave_requests
		WHERE status = $1
		ORDER BY applied_on DESC, id DESC
	`
	return r.list(ctx, query, status)
}

// GetAll implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) GetAll(ctx context.Context) ([]leave.Request, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM leave_requests
		ORDER BY applied_on DESC, id DESC
	`
	return r.list(ctx, query)
}

// UpdateStatus implements leave.RequestRepository.
func (r *leaveRequestRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to leave.RequestStatus, decidedAt time.Time) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $3, decided_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + requestColumns

	req, err := scanRequest(q.QueryRow(ctx, query, id, from, to, decidedAt))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			current, getErr := r.GetByID(ctx, id)
			if getErr != nil {
				return leave.Request{}, getErr
			}
			return leave.Request{}, fmt.Errorf("%w: request %s is %s", leave.ErrInvalidState, id, current.Status)
		}
		return leave.Request{}, fmt.Errorf("failed to update leave request status: %w", err)
	}

	return req, nil
}
