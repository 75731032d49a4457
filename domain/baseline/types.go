package baseline

import (
	"suppsignal/domain/core"
)

// StressLevel classifies a user's recent mood volatility. It only ever
// tightens or loosens decision thresholds; raw check-in data is never
// touched.
type StressLevel string

const (
	StressLow      StressLevel = "low"
	StressModerate StressLevel = "moderate"
	StressHigh     StressLevel = "high"
)

// UserBaseline is the per-user calibration record. Recomputed after each
// new check-in from the trailing ~90 days of mood history; single writer
// per user, last write wins.
type UserBaseline struct {
	UserID              core.UserID
	CalibrationComplete bool
	CalibrationDays     int
	StressLevel         *StressLevel
	LowRatio            float64
	SharpRatio          float64
	Volatility          float64
	UpdatedAt           core.Timestamp
}

// Thresholds are the decision cutoffs the compose step applies.
// Recomputed fresh per analysis call from the baseline record.
type Thresholds struct {
	MinEffectPct  float64
	MinConfidence float64
	MinDays       int
}

// BaseThresholds are the uncalibrated defaults
func BaseThresholds() Thresholds {
	return Thresholds{
		MinEffectPct:  2,
		MinConfidence: 60,
		MinDays:       7,
	}
}

// ThresholdsFor derives decision thresholds from a baseline record.
// High-stress users produce noisier self-reports, so the bar rises.
func ThresholdsFor(b *UserBaseline) Thresholds {
	th := BaseThresholds()
	if b == nil || b.StressLevel == nil {
		return th
	}
	switch *b.StressLevel {
	case StressHigh:
		th.MinEffectPct += 2
		th.MinConfidence += 10
		th.MinDays = 10
	case StressModerate:
		th.MinEffectPct += 1
		th.MinConfidence += 5
	}
	return th
}
