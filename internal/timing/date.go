package timing

import (
	"encoding/json"
	"time"
)

// DateLayout formats dates in records and JSON
const DateLayout = "2006-01-02"

// Date is a calendar day that may be absent. The zero value is absent.
type Date struct {
	t  time.Time
	ok bool
}

// Some wraps t, truncated to its UTC day
func Some(t time.Time) Date {
	y, m, d := t.Date()
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), ok: true}
}

// None is the absent date
func None() Date {
	return Date{}
}

// ParseDate parses a YYYY-MM-DD string; the empty string is None
func ParseDate(s string) (Date, error) {
	if s == "" {
		return None(), nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return None(), err
	}
	return Some(t), nil
}

// Get returns the date and whether it is present
func (d Date) Get() (time.Time, bool) {
	return d.t, d.ok
}

// IsSome reports whether the date is present
func (d Date) IsSome() bool {
	return d.ok
}

// AddDays shifts a present date; an absent date stays absent
func (d Date) AddDays(n int) Date {
	if !d.ok {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n), ok: true}
}

// After reports whether both dates are present and d is later than o
func (d Date) After(o Date) bool {
	return d.ok && o.ok && d.t.After(o.t)
}

// Equal reports whether both are absent or both present on the same day
func (d Date) Equal(o Date) bool {
	if d.ok != o.ok {
		return false
	}
	return !d.ok || d.t.Equal(o.t)
}

func (d Date) String() string {
	if !d.ok {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON writes null for an absent date
func (d Date) MarshalJSON() ([]byte, error) {
	if !d.ok {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts null, "" or YYYY-MM-DD
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
