package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/montanaflynn/stats"

	"suppsignal/domain/baseline"
	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/domain/signal"
	"suppsignal/domain/supplement"
)

const (
	// minUsableDays is the floor below which no statistics are computed
	minUsableDays = 7
	// confoundedMaxDays is the treated-day count under which a detected
	// confound forces the confounded status
	confoundedMaxDays = 21
	// protectiveMinDays is the floor before a protective supplement is
	// judged at all
	protectiveMinDays = 21
	// protectiveNoEffectDays is when a protective supplement with no
	// variance reduction is called a no-effect
	protectiveNoEffectDays = 60
	// protectiveVarianceCut is the variance reduction (%) a protective
	// verdict requires
	protectiveVarianceCut = 15
	// protectiveConfidenceCut is the confidence bar for protective
	protectiveConfidenceCut = 70
)

// ComposeInput is everything the finalizer needs. Compose is a pure
// function of this struct: no lookups, no writes, no shared state.
type ComposeInput struct {
	UserID       core.UserID
	SupplementID core.SupplementID
	Metric       checkin.Metric
	Window       signal.WindowLength

	Rows      []checkin.DayRow
	Profile   supplement.Profile
	Baseline  *baseline.UserBaseline
	Confounds signal.ConfoundSet

	Iterations int
	RNG        *rand.Rand
}

// Compose runs the decision state machine over a built window and all
// side-lookups and emits the final snapshot. Transitions are evaluated
// in fixed order: insufficient, confounded, loading, then the
// category-specific effect branches.
func Compose(in ComposeInput) *signal.Snapshot {
	snap := &signal.Snapshot{
		ID:           core.NewSnapshotID(),
		SupplementID: in.SupplementID,
		UserID:       in.UserID,
		Metric:       in.Metric,
		Window:       in.Window,
		GeneratedAt:  core.Now(),
	}

	treatedValues, controlValues, treatedDays := splitGroups(in.Rows, in.Metric)
	snap.N = len(treatedValues)

	if in.Baseline != nil && !in.Baseline.CalibrationComplete {
		snap.Warnings = append(snap.Warnings,
			fmt.Sprintf("baseline calibration incomplete (%d of %d mood days)", in.Baseline.CalibrationDays, minCalibrationDays))
	}

	// 1. Too little usable data: terminal, no statistics
	if snap.N < minUsableDays {
		snap.Status = signal.StatusInsufficient
		snap.Explanation = explainInsufficient(snap.N)
		snap.Warnings = append(snap.Warnings, "not enough treated days with recorded data to analyze")
		return snap
	}

	// 2. Unresolved confounds block attribution until enough treated
	// days accumulate, no matter how strong the raw effect looks
	if !in.Confounds.Empty() && !in.Confounds.Resolved && snap.N < confoundedMaxDays {
		snap.Status = signal.StatusConfounded
		snap.Explanation = explainConfounded(in.Profile.Name, in.Confounds.Names)
		snap.Warnings = append(snap.Warnings,
			fmt.Sprintf("started within a week of: %s", joinNames(in.Confounds.Names)))
		return snap
	}

	// 3. Still inside the loading phase: effects are not expected yet
	if in.Profile.InLoadingPhase(treatedDays) {
		snap.Status = signal.StatusLoading
		snap.Explanation = explainLoading(in.Profile, treatedDays)
		return snap
	}

	if len(controlValues) == 0 {
		snap.Status = signal.StatusTesting
		snap.Explanation = "Every day in the window is a treated day, so there is nothing to compare against yet. Keep logging through an off period to establish a control baseline."
		snap.Warnings = append(snap.Warnings, "no control days in window")
		return snap
	}

	// 4. Descriptive statistics and bootstrap confidence
	treatedMean, _ := stats.Mean(treatedValues)
	controlMean, _ := stats.Mean(controlValues)
	snap.PreMean = floatPtr(controlMean)
	snap.PostMean = floatPtr(treatedMean)

	effectPct, ok := effectPercent(in.Metric, treatedMean, controlMean)
	if !ok {
		snap.Status = signal.StatusTesting
		snap.Explanation = "The control-period average is zero, so a percent effect cannot be computed yet. More off-day data will resolve this."
		snap.Warnings = append(snap.Warnings, "control mean is zero")
		return snap
	}
	snap.EffectPct = clampPct(effectPct)
	snap.Confidence = blockBootstrapConfidence(in.Rows, in.Metric, treatedMean-controlMean, in.Iterations, in.RNG)

	pattern := NewPatternClassifier().Classify(treatedValues)
	if pattern != nil {
		p := pattern.Pattern
		snap.Pattern = &p
	}

	th := baseline.ThresholdsFor(in.Baseline)

	// 5/6. Category-specific decision branches
	switch in.Profile.Category {
	case supplement.CategoryProtective:
		composeProtective(snap, in, treatedValues, controlValues)
	case supplement.CategoryPerformance, supplement.CategorySynergistic:
		composeDirectional(snap, in, th, pattern)
	default:
		// Unknown categories are judged like performance
		composeDirectional(snap, in, th, pattern)
	}
	return snap
}

// composeProtective judges variance reduction instead of mean shift
func composeProtective(snap *signal.Snapshot, in ComposeInput, treated, control []float64) {
	if snap.N < protectiveMinDays {
		snap.Status = signal.StatusTesting
		snap.Explanation = fmt.Sprintf(
			"%s is protective: it is judged on stability, which needs at least %d treated days. %d so far.",
			in.Profile.Name, protectiveMinDays, snap.N)
		return
	}

	treatedVar, _ := stats.Variance(treated)
	controlVar, _ := stats.Variance(control)
	if controlVar > 0 {
		reduction := (controlVar - treatedVar) / controlVar * 100
		snap.VarianceReduction = floatPtr(reduction)
	}

	switch {
	case snap.VarianceReduction != nil && *snap.VarianceReduction > protectiveVarianceCut && snap.Confidence > protectiveConfidenceCut:
		snap.Status = signal.StatusProtective
		snap.Explanation = explainProtective(in.Profile, *snap.VarianceReduction, snap.Confidence)
	case snap.N >= protectiveNoEffectDays && (snap.VarianceReduction == nil || *snap.VarianceReduction <= protectiveVarianceCut):
		snap.Status = signal.StatusNoEffect
		snap.Explanation = fmt.Sprintf(
			"After %d treated days %s shows no meaningful stabilizing effect on %s.",
			snap.N, in.Profile.Name, in.Metric)
	default:
		snap.Status = signal.StatusTesting
		snap.Explanation = fmt.Sprintf(
			"Still testing whether %s stabilizes %s; the variance signal is not decisive yet.",
			in.Profile.Name, in.Metric)
	}
}

// composeDirectional judges mean shift for performance and synergistic
// categories against the calibrated thresholds
func composeDirectional(snap *signal.Snapshot, in ComposeInput, th baseline.Thresholds, pattern *signal.PatternResult) {
	effect := float64(snap.EffectPct)
	conf := float64(snap.Confidence)

	switch {
	case effect > th.MinEffectPct && conf > th.MinConfidence:
		snap.Status = signal.StatusConfirmed
		snap.Explanation = explainVerdict(pattern, explainConfirmed(in.Profile, snap.EffectPct, snap.Confidence, in.Metric))

	case effect < -th.MinEffectPct && conf > th.MinConfidence:
		snap.Status = signal.StatusHurting
		snap.Explanation = explainVerdict(pattern, explainHurting(in.Profile, snap.EffectPct, snap.Confidence, in.Metric))

	case pattern != nil && pattern.Pattern == signal.PatternCyclical && in.Profile.BuildsTolerance:
		// An early gain that has decayed in a tolerance-building
		// supplement is its own verdict, not a generic "testing"
		snap.Status = signal.StatusTolerance
		snap.Explanation = pattern.Explanation

	case math.Abs(effect) < th.MinEffectPct && conf > th.MinConfidence && snap.N >= th.MinDays:
		snap.Status = signal.StatusNoEffect
		snap.Explanation = explainVerdict(pattern, explainNoEffect(in.Profile, snap.N, in.Metric))

	case snap.N < th.MinDays:
		snap.Status = signal.StatusTesting
		snap.Explanation = fmt.Sprintf(
			"Early days: %d treated days logged, %d needed before a verdict.", snap.N, th.MinDays)

	default:
		snap.Status = signal.StatusTesting
		snap.Explanation = explainUndecided(snap.EffectPct, snap.Confidence, th)
	}
}

// splitGroups separates usable treated and control observations and
// counts treated days regardless of whether a value was recorded (day
// coverage is reported even when the metric is missing)
func splitGroups(rows []checkin.DayRow, metric checkin.Metric) (treated, control []float64, treatedDays int) {
	for _, row := range rows {
		if row.Treated {
			treatedDays++
		}
		v, ok := row.Value(metric)
		if !ok {
			continue
		}
		if row.Treated {
			treated = append(treated, v)
		} else {
			control = append(control, v)
		}
	}
	return treated, control, treatedDays
}

// effectPercent converts the group means into the reported effect. The
// two formulas are intentionally distinct: numeric metrics use percent
// change against the control mean; the ordinal mood scale uses a linear
// rescale of the delta from [-2,2] onto [-100,100].
func effectPercent(metric checkin.Metric, treatedMean, controlMean float64) (float64, bool) {
	if metric.IsNumeric() {
		if controlMean == 0 {
			return 0, false
		}
		return (treatedMean - controlMean) / math.Abs(controlMean) * 100, true
	}
	return (treatedMean - controlMean) * 50, true
}

func clampPct(v float64) int {
	if v > 100 {
		return 100
	}
	if v < -100 {
		return -100
	}
	return int(math.Round(v))
}

func floatPtr(v float64) *float64 { return &v }
