package engine

import (
	"testing"

	"suppsignal/domain/signal"
)

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestPatternClassifier(t *testing.T) {
	linear := make([]float64, 20)
	for i := range linear {
		linear[i] = 1.0 + 0.05*float64(i)
	}

	cyclical := append(append(append(
		repeat(8.0, 4), repeat(7.0, 4)...), repeat(6.5, 4)...), repeat(6.0, 4)...)

	tests := []struct {
		name   string
		values []float64
		want   *signal.Pattern
	}{
		{
			name: "rapid plateau after deficiency correction",
			values: append([]float64{4.0, 4.4, 4.8, 5.0, 5.0, 5.0, 5.0},
				repeat(5.0, 7)...),
			want: patternPtr(signal.PatternRapidPlateau),
		},
		{
			name:   "steady linear climb",
			values: linear,
			want:   patternPtr(signal.PatternSlowLinear),
		},
		{
			name:   "immediate spike then flat",
			values: []float64{4.0, 4.5, 5.2, 5.1, 5.0, 5.1, 5.0},
			want:   patternPtr(signal.PatternImmediateSpike),
		},
		{
			name:   "early gain that faded",
			values: cyclical,
			want:   patternPtr(signal.PatternCyclical),
		},
		{
			name:   "flat series matches nothing",
			values: repeat(5.0, 14),
			want:   nil,
		},
		{
			name:   "too few points",
			values: []float64{4.0, 5.2, 6.0},
			want:   nil,
		},
	}

	c := NewPatternClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.values)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected no pattern, got %s", got.Pattern)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got none", *tt.want)
			}
			if got.Pattern != *tt.want {
				t.Errorf("expected %s, got %s", *tt.want, got.Pattern)
			}
			if got.Confidence <= 0 || got.Confidence > 1 {
				t.Errorf("confidence out of range: %f", got.Confidence)
			}
			if got.Explanation == "" {
				t.Error("pattern must carry an explanation")
			}
		})
	}
}

func TestPatternClassifier_PriorityOrder(t *testing.T) {
	// A series that both spikes immediately and then plateaus: the
	// plateau check runs first and must win
	values := append([]float64{4.0, 5.2, 5.2, 5.2, 5.2, 5.2, 5.2},
		repeat(5.2, 7)...)

	got := NewPatternClassifier().Classify(values)
	if got == nil {
		t.Fatal("expected a pattern")
	}
	if got.Pattern != signal.PatternRapidPlateau {
		t.Errorf("plateau outranks spike, got %s", got.Pattern)
	}
}

func patternPtr(p signal.Pattern) *signal.Pattern { return &p }
