package attendance

import (
	"context"
	"time"
)

type Tracker interface {
	CheckIn(ctx context.Context, employeeID string) (Record, error)
	CheckOut(ctx context.Context, recordID string) (Record, error)
	CheckOutToday(ctx context.Context, employeeID string) (Record, error)
	GetRecord(ctx context.Context, recordID string) (Record, error)
	GetToday(ctx context.Context, employeeID string) (*Record, error)
	GetInRange(ctx context.Context, employeeID string, from, to time.Time) ([]Record, error)
	GetHistory(ctx context.Context, employeeID string, query RangeQuery) ([]Record, error)
	MonthlySummary(ctx context.Context, employeeID string) (MonthlySummary, error)
	ListAllInRange(ctx context.Context, query RangeQuery) ([]Record, error)
}
