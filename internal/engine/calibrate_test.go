package engine

import (
	"context"
	"testing"

	"suppsignal/domain/baseline"
	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/internal/testkit"
)

func moodEntry(userID core.UserID, d core.Day, mood checkin.MoodBucket) checkin.DailyEntry {
	m := mood
	return checkin.DailyEntry{UserID: userID, Day: d, Mood: &m}
}

func addMoodDays(store *testkit.MemoryStore, userID core.UserID, start core.Day, moods []checkin.MoodBucket) {
	for i, m := range moods {
		store.AddEntry(moodEntry(userID, start.AddDays(i), m))
	}
}

func moodSeries(counts map[checkin.MoodBucket]int) []checkin.MoodBucket {
	var out []checkin.MoodBucket
	for _, m := range []checkin.MoodBucket{checkin.MoodLow, checkin.MoodOK, checkin.MoodSharp} {
		for i := 0; i < counts[m]; i++ {
			out = append(out, m)
		}
	}
	return out
}

func TestCalibrate_TooFewMoodDays(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemoryStore()
	userID := core.UserID("user-1")

	addMoodDays(store, userID, mustDay("2025-06-01"), moodSeries(map[checkin.MoodBucket]int{
		checkin.MoodOK: 10,
	}))

	b, err := NewBaselineCalibrator(store, store, nil).Calibrate(ctx, userID)
	if err != nil {
		t.Fatalf("calibrate failed: %v", err)
	}
	if b.CalibrationComplete {
		t.Error("10 mood days must not complete calibration")
	}
	if b.StressLevel != nil {
		t.Error("no stress classification before calibration completes")
	}
	if b.CalibrationDays != 10 {
		t.Errorf("expected 10 calibration days, got %d", b.CalibrationDays)
	}

	// The partial record is still persisted
	stored, err := store.GetBaseline(ctx, userID)
	if err != nil || stored == nil {
		t.Fatalf("partial baseline not stored: %v", err)
	}
}

func TestCalibrate_StressClassification(t *testing.T) {
	tests := []struct {
		name   string
		counts map[checkin.MoodBucket]int
		want   baseline.StressLevel
	}{
		{
			name:   "mostly low days reads high stress",
			counts: map[checkin.MoodBucket]int{checkin.MoodLow: 10, checkin.MoodOK: 8, checkin.MoodSharp: 2},
			want:   baseline.StressHigh,
		},
		{
			name:   "quarter low days reads moderate",
			counts: map[checkin.MoodBucket]int{checkin.MoodLow: 5, checkin.MoodOK: 9, checkin.MoodSharp: 6},
			want:   baseline.StressModerate,
		},
		{
			name:   "few sharp days also reads moderate",
			counts: map[checkin.MoodBucket]int{checkin.MoodLow: 2, checkin.MoodOK: 16, checkin.MoodSharp: 2},
			want:   baseline.StressModerate,
		},
		{
			name:   "balanced mix reads low stress",
			counts: map[checkin.MoodBucket]int{checkin.MoodLow: 2, checkin.MoodOK: 12, checkin.MoodSharp: 6},
			want:   baseline.StressLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := testkit.NewMemoryStore()
			userID := core.UserID("user-1")
			addMoodDays(store, userID, mustDay("2025-06-01"), moodSeries(tt.counts))

			b, err := NewBaselineCalibrator(store, store, nil).Calibrate(ctx, userID)
			if err != nil {
				t.Fatalf("calibrate failed: %v", err)
			}
			if !b.CalibrationComplete {
				t.Fatal("expected calibration to complete")
			}
			if b.StressLevel == nil || *b.StressLevel != tt.want {
				t.Errorf("expected stress %s, got %v", tt.want, b.StressLevel)
			}
		})
	}
}

func TestCalibrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemoryStore()
	userID := core.UserID("user-1")
	addMoodDays(store, userID, mustDay("2025-06-01"), moodSeries(map[checkin.MoodBucket]int{
		checkin.MoodLow: 4, checkin.MoodOK: 10, checkin.MoodSharp: 6,
	}))

	cal := NewBaselineCalibrator(store, store, nil)
	a, err := cal.Calibrate(ctx, userID)
	if err != nil {
		t.Fatalf("first calibrate failed: %v", err)
	}
	b, err := cal.Calibrate(ctx, userID)
	if err != nil {
		t.Fatalf("second calibrate failed: %v", err)
	}

	if a.LowRatio != b.LowRatio || a.SharpRatio != b.SharpRatio || a.Volatility != b.Volatility {
		t.Errorf("recalibration on identical history must match: %+v vs %+v", a, b)
	}
	if *a.StressLevel != *b.StressLevel {
		t.Errorf("stress level changed on identical history: %s vs %s", *a.StressLevel, *b.StressLevel)
	}
}

func TestCalibrate_VolatilityIsAPercentile(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemoryStore()
	userID := core.UserID("user-1")

	// Alternating low/sharp is the most volatile series possible
	var moods []checkin.MoodBucket
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			moods = append(moods, checkin.MoodLow)
		} else {
			moods = append(moods, checkin.MoodSharp)
		}
	}
	addMoodDays(store, userID, mustDay("2025-06-01"), moods)

	b, err := NewBaselineCalibrator(store, store, nil).Calibrate(ctx, userID)
	if err != nil {
		t.Fatalf("calibrate failed: %v", err)
	}
	if b.Volatility < 0.99 {
		t.Errorf("maximal flip rate must land near the top of the population, got %.3f", b.Volatility)
	}
}

func TestFlipRate(t *testing.T) {
	if got := flipRate([]float64{0, 0, 0, 0}); got != 0 {
		t.Errorf("flat series flip rate = %f, want 0", got)
	}
	if got := flipRate([]float64{-1, 1, -1, 1}); got != 2 {
		t.Errorf("alternating series flip rate = %f, want 2", got)
	}
	if got := flipRate([]float64{1}); got != 0 {
		t.Errorf("single point flip rate = %f, want 0", got)
	}
}
