package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"suppsignal/domain/signal"
)

const (
	minPatternPoints   = 7
	minHalfSplitPoints = 14

	plateauGrowthMin  = 0.15
	plateauSettleMax  = 0.05
	linearSlopeMin    = 0.02
	linearRSquaredMin = 0.7
	spikeJumpMin      = 0.20
	cyclicalDropMin   = 0.15
)

// PatternClassifier inspects the shape of the treated-day series to
// explain how an effect appears. Patterns are checked in a fixed
// priority order and are mutually exclusive in output: the first match
// wins even when several heuristics would fire.
type PatternClassifier struct{}

// NewPatternClassifier creates a pattern classifier
func NewPatternClassifier() *PatternClassifier {
	return &PatternClassifier{}
}

// Classify runs the priority chain over an ordered treated-day value
// series. Returns nil when fewer than 7 points exist or nothing matches.
func (p *PatternClassifier) Classify(values []float64) *signal.PatternResult {
	if len(values) < minPatternPoints {
		return nil
	}

	if r := p.rapidPlateau(values); r != nil {
		return r
	}
	if r := p.slowLinear(values); r != nil {
		return r
	}
	if r := p.immediateSpike(values); r != nil {
		return r
	}
	if r := p.cyclical(values); r != nil {
		return r
	}
	return nil
}

// rapidPlateau detects fast improvement that then levels off, the
// classic deficiency-correction signature. Needs at least 14 points so
// both halves are meaningful.
func (p *PatternClassifier) rapidPlateau(values []float64) *signal.PatternResult {
	if len(values) < minHalfSplitPoints {
		return nil
	}
	mid := len(values) / 2
	growth, ok := relativeChange(values[0], mean(values[:mid]))
	if !ok || growth <= plateauGrowthMin {
		return nil
	}
	settle, ok := relativeChange(values[mid], values[len(values)-1])
	if !ok || math.Abs(settle) >= plateauSettleMax {
		return nil
	}
	return &signal.PatternResult{
		Pattern:    signal.PatternRapidPlateau,
		Confidence: 0.8,
		Explanation: fmt.Sprintf(
			"Rapid early improvement (%.0f%%) followed by a stable plateau. "+
				"This shape usually means a deficiency was corrected and levels are now saturated.",
			growth*100),
	}
}

// slowLinear detects a steady climb via a least-squares fit
func (p *PatternClassifier) slowLinear(values []float64) *signal.PatternResult {
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, values, nil, false)
	r2 := stat.RSquared(xs, values, nil, alpha, beta)

	if beta <= linearSlopeMin || r2 <= linearRSquaredMin {
		return nil
	}
	return &signal.PatternResult{
		Pattern:    signal.PatternSlowLinear,
		Confidence: r2,
		Explanation: fmt.Sprintf(
			"Steady linear improvement (slope %.3f per day, R²=%.2f). "+
				"Consistent with gradual accumulation rather than an acute effect.",
			beta, r2),
	}
}

// immediateSpike detects a jump within the first two treated days,
// typical of fast pharmacological onset
func (p *PatternClassifier) immediateSpike(values []float64) *signal.PatternResult {
	jump, ok := relativeChange(values[0], values[2])
	if !ok || jump <= spikeJumpMin {
		return nil
	}
	return &signal.PatternResult{
		Pattern:    signal.PatternImmediateSpike,
		Confidence: 0.7,
		Explanation: fmt.Sprintf(
			"Large jump (%.0f%%) within the first two days of use, "+
				"suggesting a fast-acting pharmacological effect.",
			jump*100),
	}
}

// cyclical detects early gain followed by decline, the tolerance
// signature. Needs at least 14 points.
func (p *PatternClassifier) cyclical(values []float64) *signal.PatternResult {
	if len(values) < minHalfSplitPoints {
		return nil
	}
	q := len(values) / 4
	firstQ := mean(values[:q])
	lastQ := mean(values[len(values)-q:])
	drop, ok := relativeChange(lastQ, firstQ)
	if !ok || drop <= cyclicalDropMin {
		return nil
	}
	return &signal.PatternResult{
		Pattern:    signal.PatternCyclical,
		Confidence: 0.7,
		Explanation: fmt.Sprintf(
			"Early response has faded: the first quarter of treated days averaged %.0f%% higher than the last. "+
				"This decline pattern often indicates tolerance build-up.",
			drop*100),
	}
}

// relativeChange returns (to-from)/|from|, failing when the reference is
// zero
func relativeChange(from, to float64) (float64, bool) {
	if from == 0 {
		return 0, false
	}
	return (to - from) / math.Abs(from), true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
