package core

import (
	"fmt"
	"time"
)

// Day represents a calendar day with no time-of-day component.
// All engine arithmetic happens on days; timestamps from the lookup
// layer are truncated on entry.
type Day struct {
	t time.Time
}

// NewDay creates a Day from a time.Time, truncating to midnight UTC
func NewDay(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a Day from YYYY-MM-DD
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return NewDay(t), nil
}

// Today returns the current calendar day in UTC
func Today() Day {
	return NewDay(time.Now())
}

// Time returns the underlying midnight-UTC time.Time
func (d Day) Time() time.Time {
	return d.t
}

// String formats the day as YYYY-MM-DD
func (d Day) String() string {
	return d.t.Format("2006-01-02")
}

// IsZero checks if the day is unset
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// AddDays returns the day n calendar days later (negative n walks back)
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Before returns true if d is before u
func (d Day) Before(u Day) bool {
	return d.t.Before(u.t)
}

// After returns true if d is after u
func (d Day) After(u Day) bool {
	return d.t.After(u.t)
}

// Equal returns true if d and u are the same calendar day
func (d Day) Equal(u Day) bool {
	return d.t.Equal(u.t)
}

// DaysSince returns the number of whole days from u to d
func (d Day) DaysSince(u Day) int {
	return int(d.t.Sub(u.t) / (24 * time.Hour))
}

// WithinDays reports whether d falls within n days of u on either side
func (d Day) WithinDays(u Day, n int) bool {
	diff := d.DaysSince(u)
	if diff < 0 {
		diff = -diff
	}
	return diff <= n
}

// Timestamp represents a point in time with timezone awareness
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}
