// Package checkin holds the daily self-report types the engine consumes.
// Rows are normalized by the intake layer before they reach the engine;
// nothing here is persisted by the engine itself.
package checkin

import (
	"suppsignal/domain/core"
)

// MoodBucket is the categorical mood scale used by daily check-ins
type MoodBucket string

const (
	MoodLow   MoodBucket = "low"
	MoodOK    MoodBucket = "ok"
	MoodSharp MoodBucket = "sharp"
)

// Encode maps a mood bucket onto the ordinal scale used for statistics.
// low=-1, ok=0, sharp=1.
func (m MoodBucket) Encode() (float64, bool) {
	switch m {
	case MoodLow:
		return -1, true
	case MoodOK:
		return 0, true
	case MoodSharp:
		return 1, true
	default:
		return 0, false
	}
}

// Valid reports whether the bucket is one of the known values
func (m MoodBucket) Valid() bool {
	_, ok := m.Encode()
	return ok
}

// Metric identifies which tracked metric an analysis targets
type Metric string

const (
	MetricMood    Metric = "mood"
	MetricSleep   Metric = "sleep_quality"
	MetricEnergy  Metric = "energy"
	MetricFocus   Metric = "focus"
)

// IsNumeric reports whether the metric is a continuous numeric series
// rather than the categorical mood bucket
func (m Metric) IsNumeric() bool {
	return m != MetricMood
}

// DailyEntry is one user check-in for one calendar day, as supplied by
// the lookup layer
type DailyEntry struct {
	UserID  core.UserID
	Day     core.Day
	Mood    *MoodBucket
	Metrics map[Metric]float64
}

// MetricValue returns the numeric value recorded for the given metric,
// if any
func (e DailyEntry) MetricValue(m Metric) (float64, bool) {
	if e.Metrics == nil {
		return 0, false
	}
	v, ok := e.Metrics[m]
	return v, ok
}

// DayRow is one calendar day inside an analysis window. Immutable once
// the window is built; rebuilt from raw logs on every analysis call.
type DayRow struct {
	Day         core.Day
	Treated     bool
	MetricValue *float64
	Mood        *MoodBucket
}

// HasValue reports whether the row carries a usable observation for the
// given metric selection
func (r DayRow) HasValue(metric Metric) bool {
	if metric.IsNumeric() {
		return r.MetricValue != nil
	}
	return r.Mood != nil && r.Mood.Valid()
}

// Value returns the row's observation on the statistical scale: the raw
// numeric value for numeric metrics, the ordinal mood encoding otherwise
func (r DayRow) Value(metric Metric) (float64, bool) {
	if metric.IsNumeric() {
		if r.MetricValue == nil {
			return 0, false
		}
		return *r.MetricValue, true
	}
	if r.Mood == nil {
		return 0, false
	}
	return r.Mood.Encode()
}
