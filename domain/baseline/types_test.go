package baseline

import (
	"testing"
)

func TestThresholdsFor(t *testing.T) {
	level := func(l StressLevel) *UserBaseline {
		return &UserBaseline{UserID: "user-1", CalibrationComplete: true, StressLevel: &l}
	}

	tests := []struct {
		name     string
		baseline *UserBaseline
		want     Thresholds
	}{
		{
			name:     "nil baseline uses defaults",
			baseline: nil,
			want:     Thresholds{MinEffectPct: 2, MinConfidence: 60, MinDays: 7},
		},
		{
			name:     "uncalibrated baseline uses defaults",
			baseline: &UserBaseline{UserID: "user-1"},
			want:     Thresholds{MinEffectPct: 2, MinConfidence: 60, MinDays: 7},
		},
		{
			name:     "low stress uses defaults",
			baseline: level(StressLow),
			want:     Thresholds{MinEffectPct: 2, MinConfidence: 60, MinDays: 7},
		},
		{
			name:     "moderate stress tightens slightly",
			baseline: level(StressModerate),
			want:     Thresholds{MinEffectPct: 3, MinConfidence: 65, MinDays: 7},
		},
		{
			name:     "high stress tightens hard",
			baseline: level(StressHigh),
			want:     Thresholds{MinEffectPct: 4, MinConfidence: 70, MinDays: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ThresholdsFor(tt.baseline); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
