package expense

import (
	"strings"
	"time"

	"github.com/fkhayef/reimburse/pkg/apperror"
)

// DateLayout is the calendar date format accepted for range bounds
const DateLayout = "2006-01-02"

var ErrInvalidDateRange = apperror.Validation("INVALID_DATE_RANGE", "Invalid date range")

// DateRange is an inclusive range of calendar days in UTC. The zero value is unbounded.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange reads YYYY-MM-DD bounds. Both must be given or neither.
func ParseDateRange(from, to string) (DateRange, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return DateRange{}, nil
	}
	if from == "" || to == "" {
		return DateRange{}, ErrInvalidDateRange.WithMessage("start_date and end_date must be provided together")
	}

	start, err := time.Parse(DateLayout, from)
	if err != nil {
		return DateRange{}, ErrInvalidDateRange.WithMessage("start_date must be a date in YYYY-MM-DD format")
	}
	end, err := time.Parse(DateLayout, to)
	if err != nil {
		return DateRange{}, ErrInvalidDateRange.WithMessage("end_date must be a date in YYYY-MM-DD format")
	}
	if start.After(end) {
		return DateRange{}, ErrInvalidDateRange.WithMessage("start_date must not be after end_date")
	}

	return DateRange{From: start, To: end}, nil
}

// IsZero reports whether the range is unbounded
func (d DateRange) IsZero() bool {
	return d.From.IsZero() && d.To.IsZero()
}

// Bounds returns the half-open instant interval [start, end) covering every day in the range
func (d DateRange) Bounds() (start, end time.Time) {
	return d.From, d.To.AddDate(0, 0, 1)
}
