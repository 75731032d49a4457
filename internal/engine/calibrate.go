package engine

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"suppsignal/domain/baseline"
	"suppsignal/domain/core"
	"suppsignal/internal/errors"
	"suppsignal/internal/logging"
	"suppsignal/ports"
)

const (
	// calibrationWindowDays is how much mood history feeds calibration
	calibrationWindowDays = 90
	// minCalibrationDays is the minimum mood check-ins before a stress
	// classification is attempted
	minCalibrationDays = 14
)

// volatilityPopulation is the assumed distribution of day-to-day mood
// flip rates across users, used to express a user's volatility as a
// population percentile
var volatilityPopulation = distuv.Normal{Mu: 0.45, Sigma: 0.2}

// BaselineCalibrator aggregates recent mood history into a per-user
// stress classification. The classification only ever adjusts decision
// thresholds; raw check-in data is never modified.
type BaselineCalibrator struct {
	checkins  ports.CheckinStore
	baselines ports.BaselineStore
	log       *logging.Logger
}

// NewBaselineCalibrator wires a calibrator against its stores
func NewBaselineCalibrator(checkins ports.CheckinStore, baselines ports.BaselineStore, log *logging.Logger) *BaselineCalibrator {
	if log == nil {
		log = logging.DefaultLogger
	}
	return &BaselineCalibrator{checkins: checkins, baselines: baselines, log: log.For("calibrate")}
}

// Calibrate recomputes the user's baseline from up to 90 days of mood
// history and writes it back. Fewer than 14 mood check-ins produces a
// partial record with no stress classification. Recomputation is
// idempotent given the same history.
func (c *BaselineCalibrator) Calibrate(ctx context.Context, userID core.UserID) (*baseline.UserBaseline, error) {
	entries, err := c.checkins.MoodHistory(ctx, userID, calibrationWindowDays)
	if err != nil {
		return nil, errors.LookupFailed("mood history", err)
	}

	var encoded []float64
	for _, e := range entries {
		if e.Mood == nil {
			continue
		}
		if v, ok := e.Mood.Encode(); ok {
			encoded = append(encoded, v)
		}
	}

	b := baseline.UserBaseline{
		UserID:          userID,
		CalibrationDays: len(encoded),
		UpdatedAt:       core.Now(),
	}

	if len(encoded) < minCalibrationDays {
		b.CalibrationComplete = false
		c.log.Debug("user=%s has %d mood days, calibration incomplete", userID, len(encoded))
		if err := c.baselines.PutBaseline(ctx, b); err != nil {
			return nil, errors.Wrap(err, "failed to store partial baseline")
		}
		return &b, nil
	}

	low, sharp := 0, 0
	for _, v := range encoded {
		switch {
		case v < 0:
			low++
		case v > 0:
			sharp++
		}
	}
	n := float64(len(encoded))
	b.LowRatio = float64(low) / n
	b.SharpRatio = float64(sharp) / n
	b.Volatility = volatilityPopulation.CDF(flipRate(encoded))
	b.CalibrationComplete = true

	level := classifyStress(b.LowRatio, b.SharpRatio)
	b.StressLevel = &level

	if err := c.baselines.PutBaseline(ctx, b); err != nil {
		return nil, errors.Wrap(err, "failed to store baseline")
	}
	c.log.Debug("user=%s stress=%s low=%.2f sharp=%.2f vol=%.2f", userID, level, b.LowRatio, b.SharpRatio, b.Volatility)
	return &b, nil
}

// Load returns the stored baseline without recomputing, or nil if the
// user has never been calibrated
func (c *BaselineCalibrator) Load(ctx context.Context, userID core.UserID) (*baseline.UserBaseline, error) {
	b, err := c.baselines.GetBaseline(ctx, userID)
	if err != nil {
		return nil, errors.LookupFailed("user baseline", err)
	}
	return b, nil
}

// classifyStress maps mood composition onto a stress level. A heavy
// share of low days dominates; a thin share of sharp days still reads
// as moderate strain.
func classifyStress(lowRatio, sharpRatio float64) baseline.StressLevel {
	switch {
	case lowRatio > 0.4:
		return baseline.StressHigh
	case lowRatio > 0.2 || sharpRatio < 0.2:
		return baseline.StressModerate
	default:
		return baseline.StressLow
	}
}

// flipRate is the mean absolute day-to-day change of the encoded mood
// series, a naive volatility measure on the [-1,1] ordinal scale
func flipRate(encoded []float64) float64 {
	if len(encoded) < 2 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(encoded); i++ {
		sum += math.Abs(encoded[i] - encoded[i-1])
	}
	return sum / float64(len(encoded)-1)
}
