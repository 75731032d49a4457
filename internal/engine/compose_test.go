package engine

import (
	"math/rand"
	"testing"

	"suppsignal/domain/baseline"
	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/domain/signal"
	"suppsignal/domain/supplement"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func numericRow(day core.Day, treated bool, value float64) checkin.DayRow {
	v := value
	return checkin.DayRow{Day: day, Treated: treated, MetricValue: &v}
}

func moodRow(day core.Day, treated bool, mood checkin.MoodBucket) checkin.DayRow {
	m := mood
	return checkin.DayRow{Day: day, Treated: treated, Mood: &m}
}

// buildRows produces control days followed by treated days with fixed
// per-group values supplied by valueFn(i, treated)
func buildRows(controlDays, treatedDays int, valueFn func(i int, treated bool) float64) []checkin.DayRow {
	start, _ := core.ParseDay("2025-01-01")
	var rows []checkin.DayRow
	for i := 0; i < controlDays; i++ {
		rows = append(rows, numericRow(start.AddDays(i), false, valueFn(i, false)))
	}
	for i := 0; i < treatedDays; i++ {
		rows = append(rows, numericRow(start.AddDays(controlDays+i), true, valueFn(i, true)))
	}
	return rows
}

func composeInput(rows []checkin.DayRow, profile supplement.Profile) ComposeInput {
	return ComposeInput{
		UserID:       "user-1",
		SupplementID: "supp-1",
		Metric:       checkin.MetricSleep,
		Window:       signal.Window90,
		Rows:         rows,
		Profile:      profile,
		RNG:          testRNG(),
	}
}

func TestCompose_InsufficientBelowSevenUsableDays(t *testing.T) {
	rows := buildRows(10, 5, func(i int, treated bool) float64 {
		if treated {
			return 9.0 // a huge raw effect must still short-circuit
		}
		return 5.0
	})

	snap := Compose(composeInput(rows, supplement.DefaultProfile("unknown")))

	if snap.Status != signal.StatusInsufficient {
		t.Fatalf("expected insufficient, got %s", snap.Status)
	}
	if snap.EffectPct != 0 || snap.Confidence != 0 {
		t.Errorf("insufficient must not compute statistics: effect=%d confidence=%d",
			snap.EffectPct, snap.Confidence)
	}
}

func TestCompose_ConfoundedOverridesStrongEffect(t *testing.T) {
	rows := buildRows(10, 10, func(i int, treated bool) float64 {
		if treated {
			return 9.0
		}
		return 5.0
	})

	in := composeInput(rows, supplement.DefaultProfile("unknown"))
	in.Confounds = signal.ConfoundSet{Names: []string{"ashwagandha"}}

	snap := Compose(in)

	if snap.Status != signal.StatusConfounded {
		t.Fatalf("expected confounded regardless of effect, got %s", snap.Status)
	}
}

func TestCompose_ResolvedConfoundDoesNotBlock(t *testing.T) {
	rows := buildRows(15, 15, func(i int, treated bool) float64 {
		if treated {
			return 6.0
		}
		return 5.0
	})

	in := composeInput(rows, supplement.DefaultProfile("unknown"))
	in.Confounds = signal.ConfoundSet{Names: []string{"ashwagandha"}, Resolved: true}

	snap := Compose(in)

	if snap.Status == signal.StatusConfounded {
		t.Fatal("a resolved confound must not block attribution")
	}
	if snap.Status != signal.StatusConfirmed {
		t.Fatalf("expected confirmed once the confound resolved, got %s", snap.Status)
	}
}

func TestCompose_LoadingPhase(t *testing.T) {
	rows := buildRows(14, 10, func(i int, treated bool) float64 { return 5.0 })

	loading := 14
	profile := supplement.DefaultProfile("creatine")
	profile.LoadingPhaseDays = &loading

	snap := Compose(composeInput(rows, profile))

	if snap.Status != signal.StatusLoading {
		t.Fatalf("expected loading, got %s", snap.Status)
	}
}

func TestCompose_ConfirmedAndHurtingAreSymmetric(t *testing.T) {
	confirmed := Compose(composeInput(buildRows(15, 15, func(i int, treated bool) float64 {
		if treated {
			return 6.0
		}
		return 5.0
	}), supplement.DefaultProfile("unknown")))

	if confirmed.Status != signal.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s (effect=%d conf=%d)",
			confirmed.Status, confirmed.EffectPct, confirmed.Confidence)
	}
	if confirmed.EffectPct != 20 {
		t.Errorf("expected 20%% effect, got %d", confirmed.EffectPct)
	}

	hurting := Compose(composeInput(buildRows(15, 15, func(i int, treated bool) float64 {
		if treated {
			return 4.0
		}
		return 5.0
	}), supplement.DefaultProfile("unknown")))

	if hurting.Status != signal.StatusHurting {
		t.Fatalf("expected hurting, got %s", hurting.Status)
	}
	if hurting.EffectPct != -20 {
		t.Errorf("expected -20%% effect, got %d", hurting.EffectPct)
	}
}

func TestCompose_MoodScenario(t *testing.T) {
	start, _ := core.ParseDay("2025-01-01")
	var rows []checkin.DayRow
	for i := 0; i < 10; i++ {
		rows = append(rows, moodRow(start.AddDays(i), false, checkin.MoodOK))
	}
	for i := 0; i < 10; i++ {
		rows = append(rows, moodRow(start.AddDays(10+i), true, checkin.MoodSharp))
	}

	in := composeInput(rows, supplement.DefaultProfile("unknown"))
	in.Metric = checkin.MetricMood

	snap := Compose(in)

	if snap.EffectPct <= 0 {
		t.Errorf("ok->sharp shift must be positive, got %d", snap.EffectPct)
	}
	if snap.Confidence <= 50 {
		t.Errorf("expected confidence above 50, got %d", snap.Confidence)
	}
	// Mood delta of 1 on the [-2,2] scale rescales to 50
	if snap.EffectPct != 50 {
		t.Errorf("expected 50%% effect from a full-bucket shift, got %d", snap.EffectPct)
	}
}

func TestCompose_ProtectiveVarianceReduction(t *testing.T) {
	// Control swings ±1 around 6, treated swings ±0.707 around 6.8:
	// roughly 50% population-variance reduction with a stable mean lift
	rows := buildRows(26, 26, func(i int, treated bool) float64 {
		sign := 1.0
		if i%2 == 0 {
			sign = -1.0
		}
		if treated {
			return 6.8 + sign*0.70710678
		}
		return 6.0 + sign*1.0
	})

	profile := supplement.DefaultProfile("magnesium")
	profile.Category = supplement.CategoryProtective

	snap := Compose(composeInput(rows, profile))

	if snap.Status != signal.StatusProtective {
		t.Fatalf("expected protective, got %s (reduction=%v conf=%d)",
			snap.Status, snap.VarianceReduction, snap.Confidence)
	}
	if snap.VarianceReduction == nil {
		t.Fatal("expected variance reduction to be reported")
	}
	if *snap.VarianceReduction < 45 || *snap.VarianceReduction > 55 {
		t.Errorf("expected ~50%% variance reduction, got %.1f", *snap.VarianceReduction)
	}
}

func TestCompose_ProtectiveNeedsTwentyOneDays(t *testing.T) {
	rows := buildRows(10, 10, func(i int, treated bool) float64 { return 5.0 })

	profile := supplement.DefaultProfile("magnesium")
	profile.Category = supplement.CategoryProtective

	snap := Compose(composeInput(rows, profile))

	if snap.Status != signal.StatusTesting {
		t.Fatalf("protective with n<21 must stay testing, got %s", snap.Status)
	}
}

func TestCompose_NoEffectWhenDeltaTiny(t *testing.T) {
	// A consistent but tiny lift: sign-stable, yet under the 2% bar
	rows := buildRows(15, 15, func(i int, treated bool) float64 {
		if treated {
			return 5.05
		}
		return 5.0
	})

	snap := Compose(composeInput(rows, supplement.DefaultProfile("unknown")))

	if snap.Status != signal.StatusNoEffect {
		t.Fatalf("expected no_effect, got %s (effect=%d conf=%d)",
			snap.Status, snap.EffectPct, snap.Confidence)
	}
}

func TestCompose_HighStressRaisesBar(t *testing.T) {
	// 3% effect clears the base 2% bar but not the high-stress 4% bar
	rows := buildRows(15, 15, func(i int, treated bool) float64 {
		if treated {
			return 5.15
		}
		return 5.0
	})

	in := composeInput(rows, supplement.DefaultProfile("unknown"))
	base := Compose(in)
	if base.Status != signal.StatusConfirmed {
		t.Fatalf("expected confirmed under base thresholds, got %s", base.Status)
	}

	high := baseline.StressHigh
	in2 := composeInput(rows, supplement.DefaultProfile("unknown"))
	in2.Baseline = &baseline.UserBaseline{
		UserID:              "user-1",
		CalibrationComplete: true,
		CalibrationDays:     30,
		StressLevel:         &high,
	}
	stressed := Compose(in2)
	if stressed.Status == signal.StatusConfirmed {
		t.Fatal("high-stress thresholds must block a borderline effect")
	}
}

func TestCompose_Idempotent(t *testing.T) {
	build := func() ComposeInput {
		return composeInput(buildRows(15, 15, func(i int, treated bool) float64 {
			if treated {
				return 6.0 + float64(i%3)*0.1
			}
			return 5.0 + float64(i%2)*0.1
		}), supplement.DefaultProfile("unknown"))
	}

	a := Compose(build())
	b := Compose(build())

	if a.Status != b.Status || a.EffectPct != b.EffectPct || a.Confidence != b.Confidence {
		t.Errorf("identical seeded inputs must produce identical snapshots: %+v vs %+v", a, b)
	}
}

func TestCompose_MintsSnapshotID(t *testing.T) {
	rows := buildRows(10, 10, func(i int, treated bool) float64 { return 5.0 })

	a := Compose(composeInput(rows, supplement.DefaultProfile("unknown")))
	b := Compose(composeInput(rows, supplement.DefaultProfile("unknown")))

	if a.ID == "" || b.ID == "" {
		t.Fatal("every snapshot must carry an id")
	}
	if a.ID == b.ID {
		t.Error("snapshot ids must be unique per compose call")
	}
}

func TestCompose_NoControlDays(t *testing.T) {
	rows := buildRows(0, 15, func(i int, treated bool) float64 { return 5.0 })

	snap := Compose(composeInput(rows, supplement.DefaultProfile("unknown")))

	if snap.Status != signal.StatusTesting {
		t.Fatalf("all-treated window must be testing, got %s", snap.Status)
	}
}
