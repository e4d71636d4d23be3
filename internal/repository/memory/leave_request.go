package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
)

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.RequestRepository {
	return &leaveRequestRepository{store: store}
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if request.ID == "" {
		id, err := newID()
		if err != nil {
			return leave.Request{}, err
		}
		request.ID = id
	}
	now := s.now()
	request.CreatedAt, request.UpdatedAt = now, now

	s.requests[request.ID] = requestRow{request: request, seq: s.nextSeq()}
	id := request.ID
	onRollback(ctx, func() { delete(s.requests, id) })

	return request, nil
}

// GetByID implements leave.RequestRepository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.requests[id]
	if !ok {
		return leave.Request{}, fmt.Errorf("%w: %s", leave.ErrLeaveRequestNotFound, id)
	}
	return row.request, nil
}

// GetByEmployeeID implements leave.RequestRepository.
func (r *leaveRequestRepository) GetByEmployeeID(ctx context.Context, employeeID string) ([]leave.Request, error) {
	return r.filter(func(req leave.Request) bool { return req.EmployeeID == employeeID }), nil
}

// GetByStatus implements leave.RequestRepository.
func (r *leaveRequestRepository) GetByStatus(ctx context.Context, status leave.RequestStatus) ([]leave.Request, error) {
	return r.filter(func(req leave.Request) bool { return req.Status == status }), nil
}

// GetAll implements leave.RequestRepository.
func (r *leaveRequestRepository) GetAll(ctx context.Context) ([]leave.Request, error) {
	return r.filter(func(leave.Request) bool { return true }), nil
}

// UpdateStatus implements leave.RequestRepository.
func (r *leaveRequestRepository) UpdateStatus(ctx context.Context, id string, from, to leave.RequestStatus, decidedAt time.Time) (leave.Request, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.requests[id]
	if !ok {
		return leave.Request{}, fmt.Errorf("%w: %s", leave.ErrLeaveRequestNotFound, id)
	}
	if row.request.Status != from {
		return leave.Request{}, fmt.Errorf("%w: request %s is %s", leave.ErrInvalidState, id, row.request.Status)
	}

	before := row
	row.request.Status = to
	row.request.DecidedAt = &decidedAt
	row.request.UpdatedAt = s.now()
	s.requests[id] = row
	onRollback(ctx, func() { s.requests[id] = before })

	return row.request, nil
}

// filter returns matching requests, most recently applied first.
func (r *leaveRequestRepository) filter(match func(leave.Request) bool) []leave.Request {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]requestRow, 0)
	for _, row := range s.requests {
		if match(row.request) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].request.AppliedOn.Equal(rows[j].request.AppliedOn) {
			return rows[i].request.AppliedOn.After(rows[j].request.AppliedOn)
		}
		return rows[i].seq > rows[j].seq
	})

	requests := make([]leave.Request, len(rows))
	for i, row := range rows {
		requests[i] = row.request
	}
	return requests
}
