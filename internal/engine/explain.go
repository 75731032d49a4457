package engine

import (
	"fmt"
	"strings"

	"suppsignal/domain/baseline"
	"suppsignal/domain/checkin"
	"suppsignal/domain/signal"
	"suppsignal/domain/supplement"
)

// explainVerdict prefers a classified pattern's explanation over the
// generic one for effect verdicts, since the shape of the response is
// usually the more useful story
func explainVerdict(pattern *signal.PatternResult, generic string) string {
	if pattern != nil {
		return pattern.Explanation
	}
	return generic
}

func explainInsufficient(n int) string {
	if n == 0 {
		return "No treated days with recorded data yet. Log a few check-ins while taking the supplement to start the analysis."
	}
	return fmt.Sprintf(
		"Only %d treated day(s) with recorded data; at least %d are needed before any statistics are meaningful.",
		n, minUsableDays)
}

func explainConfounded(name string, confounds []string) string {
	return fmt.Sprintf(
		"%s was started within a week of %s, so observed changes cannot be attributed to it yet. "+
			"Attribution becomes possible after %d treated days.",
		name, joinNames(confounds), confoundedMaxDays)
}

func explainLoading(p supplement.Profile, treatedDays int) string {
	msg := fmt.Sprintf("%s is still in its loading phase (%d of %d days).",
		p.Name, treatedDays, derefInt(p.LoadingPhaseDays))
	if p.PeakEffectDays != nil && *p.PeakEffectDays > treatedDays {
		msg += fmt.Sprintf(" Expect peak effect around day %d.", *p.PeakEffectDays)
	}
	return msg
}

func explainConfirmed(p supplement.Profile, effectPct, confidence int, metric checkin.Metric) string {
	return fmt.Sprintf(
		"%s shows a %d%% improvement in %s with %d%% sign-stability across resampled weeks.",
		p.Name, effectPct, metric, confidence)
}

func explainHurting(p supplement.Profile, effectPct, confidence int, metric checkin.Metric) string {
	return fmt.Sprintf(
		"%s is associated with a %d%% decline in %s (%d%% sign-stability). Worth pausing to verify.",
		p.Name, -effectPct, metric, confidence)
}

func explainNoEffect(p supplement.Profile, n int, metric checkin.Metric) string {
	return fmt.Sprintf(
		"Across %d treated days %s shows no measurable effect on %s.",
		n, p.Name, metric)
}

func explainProtective(p supplement.Profile, reduction float64, confidence int) string {
	return fmt.Sprintf(
		"%s is smoothing things out: day-to-day variability is %.0f%% lower on treated days (%d%% sign-stability). "+
			"Protective supplements show up as stability, not spikes.",
		p.Name, reduction, confidence)
}

// explainUndecided picks the most specific reason an effect verdict is
// not yet possible: weak confidence reads as noise, a borderline effect
// as small-but-unclear
func explainUndecided(effectPct, confidence int, th baseline.Thresholds) string {
	absEffect := effectPct
	if absEffect < 0 {
		absEffect = -absEffect
	}
	switch {
	case float64(absEffect) >= th.MinEffectPct:
		return fmt.Sprintf(
			"A %d%% effect is visible but sign-stability is only %d%% (need >%.0f%%). The data is too noisy to call yet.",
			effectPct, confidence, th.MinConfidence)
	default:
		return fmt.Sprintf(
			"The observed effect (%d%%) is small and not yet distinguishable from day-to-day variation.",
			effectPct)
	}
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "another supplement"
	}
	return strings.Join(names, ", ")
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
