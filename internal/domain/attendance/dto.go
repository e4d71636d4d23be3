package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timeleave-go/internal/pkg/validator"
)

// HistoryDefaultDays is how far back a history query reaches when no range is given.
const HistoryDefaultDays = 30

type RangeQuery struct {
	From string `json:"from"`
	To   string `json:"to"`

	from time.Time
	to   time.Time
}

// Validate checks both bounds are dates. Either both or neither must be set.
func (q *RangeQuery) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(q.From) != validator.IsEmpty(q.To) {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from and to must be provided together",
		})
		return errs
	}

	if !validator.IsEmpty(q.From) {
		from, ok := validator.IsValidDate(q.From)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
		to, ok := validator.IsValidDate(q.To)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
		q.from, q.to = from, to
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Bounds returns the parsed range, or ok=false when the query was empty.
func (q RangeQuery) Bounds() (from, to time.Time, ok bool) {
	if q.from.IsZero() && q.to.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	return q.from, q.to, true
}

type MonthlySummary struct {
	Month              string  `json:"month"`
	TotalDays          int     `json:"total_days"`
	PresentDays        int     `json:"present_days"`
	TotalHours         float64 `json:"total_hours"`
	AverageHoursPerDay float64 `json:"average_hours_per_day"`
}
