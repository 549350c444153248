package common

import (
	"time"

	"github.com/drfirst/go-clinicaldoc/internal/validation"
)

// Interval is a time range with at least one bound
type Interval struct {
	Start time.Time `json:"start,omitzero"`
	End   time.Time `json:"end,omitzero"`
}

// NewInterval creates an interval; either bound may be zero
func NewInterval(start, end time.Time) *Interval {
	return &Interval{Start: start, End: end}
}

// Contains reports whether t falls within the populated bounds
func (i *Interval) Contains(t time.Time) bool {
	if !i.Start.IsZero() && t.Before(i.Start) {
		return false
	}
	if !i.End.IsZero() && t.After(i.End) {
		return false
	}
	return true
}

// Validate requires one bound and a start that is not after the end
func (i *Interval) Validate(path string, v *validation.Validator) {
	if i.Start.IsZero() && i.End.IsZero() {
		v.Add(validation.KindRequired, path, "", "One of Start or End must be provided")
		return
	}
	v.CheckOrder(path, i.Start, i.End)
}
