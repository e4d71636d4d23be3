// Package memory keeps every repository in process memory. It backs
// STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/database"
	"github.com/google/uuid"
)

// Store holds all tables behind one mutex. Writes made inside
// WithinTransaction are recorded in an undo log and reverted if fn fails.
type Store struct {
	mu         sync.RWMutex
	now        func() time.Time
	seq        int64
	attendance map[string]attendanceRow
	balances   map[string]leave.Balance
	requests   map[string]requestRow
}

type attendanceRow struct {
	record attendance.Record
	seq    int64
}

type requestRow struct {
	request leave.Request
	seq     int64
}

func NewStore() *Store {
	return &Store{
		now:        time.Now,
		attendance: make(map[string]attendanceRow),
		balances:   make(map[string]leave.Balance),
		requests:   make(map[string]requestRow),
	}
}

type txKey struct{}

type undoLog struct {
	mu    sync.Mutex
	steps []func()
}

func (l *undoLog) push(step func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.steps = append(l.steps, step)
}

// WithinTransaction implements database.Transactor. Nested calls join the
// outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*undoLog); ok {
		return fn(ctx)
	}

	log := &undoLog{}
	txCtx := context.WithValue(ctx, txKey{}, log)

	defer func() {
		if p := recover(); p != nil {
			s.rollback(log)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		s.rollback(log)
		return err
	}
	return nil
}

func (s *Store) rollback(log *undoLog) {
	log.mu.Lock()
	steps := log.steps
	log.steps = nil
	log.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(steps) - 1; i >= 0; i-- {
		steps[i]()
	}
}

// onRollback registers an undo step if ctx carries a transaction. Callers hold s.mu.
func onRollback(ctx context.Context, undo func()) {
	if log, ok := ctx.Value(txKey{}).(*undoLog); ok {
		log.push(undo)
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

var _ database.Transactor = (*Store)(nil)
