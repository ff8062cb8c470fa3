// ============================================================================
// wellecon - Well Economics Engine
// ============================================================================
//
// Package:     strip
// Description: Monthly price and tax strips
// Author:      wellecon contributors
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package strip

import (
	"time"

	"github.com/petroval/wellecon/pkg/core/apperror"
)

// Strip is a monthly series. Dates are first-of-month in UTC and strictly
// increasing; Values has one entry per date.
type Strip struct {
	Dates  []time.Time
	Values []float64
}

// Len returns the number of months
func (s Strip) Len() int {
	return len(s.Values)
}

// Validate checks the date and value invariants
func (s Strip) Validate() error {
	if len(s.Dates) != len(s.Values) {
		return apperror.ShapeMismatch("strip has %d dates and %d values", len(s.Dates), len(s.Values))
	}
	for i, d := range s.Dates {
		if d.Day() != 1 {
			return apperror.Newf(apperror.CodeMalformedInput, "strip date %s is not a month start", d.Format("2006-01-02")).
				WithDetail("index", i)
		}
		if i > 0 && !d.After(s.Dates[i-1]) {
			return apperror.Newf(apperror.CodeMalformedInput, "strip dates not increasing at %d", i)
		}
	}
	return nil
}

// Window returns the n months starting at the month of from. Months outside
// the strip are an error.
func (s Strip) Window(from time.Time, n int) (Strip, error) {
	if len(s.Dates) == 0 {
		return Strip{}, apperror.ShapeMismatch("empty strip")
	}
	off := MonthsBetween(s.Dates[0], MonthStart(from))
	if off < 0 || off+n > s.Len() {
		return Strip{}, apperror.ShapeMismatch("window of %d months from %s outside strip %s..%s",
			n, from.Format("2006-01"), s.Dates[0].Format("2006-01"), s.Dates[len(s.Dates)-1].Format("2006-01"))
	}
	return Strip{
		Dates:  append([]time.Time(nil), s.Dates[off:off+n]...),
		Values: append([]float64(nil), s.Values[off:off+n]...),
	}, nil
}

// MonthStart truncates t to the first day of its month in UTC
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Months returns n consecutive month starts beginning at the month of start
func Months(start time.Time, n int) []time.Time {
	start = MonthStart(start)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.AddDate(0, i, 0)
	}
	return out
}

// MonthsBetween counts calendar months from the month of a to the month of b
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
}
