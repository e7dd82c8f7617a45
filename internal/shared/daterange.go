package shared

import (
	"time"
)

// DateLayout is the wire format for report dates.
const DateLayout = "2006-01-02"

// DateRange bounds a report query. A zero From means unbounded below and a
// zero To means unbounded above.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange builds a DateRange from optional from/to strings.
func ParseDateRange(from, to string) (DateRange, error) {
	var dr DateRange
	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return DateRange{}, Validationf("invalid from date %q", from)
		}
		dr.From = t
	}
	if to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return DateRange{}, Validationf("invalid to date %q", to)
		}
		dr.To = t
	}
	if !dr.From.IsZero() && !dr.To.IsZero() && dr.To.Before(dr.From) {
		return DateRange{}, Validationf("date range ends before it starts")
	}
	return dr, nil
}

// Contains reports whether t falls inside the range (inclusive bounds).
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// Bounded reports whether the range has a lower bound.
func (r DateRange) Bounded() bool {
	return !r.From.IsZero()
}
