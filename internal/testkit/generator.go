package testkit

import (
	"math/rand"

	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/domain/supplement"
)

// ScenarioConfig configures the synthetic supplement trial generator
type ScenarioConfig struct {
	UserID         core.UserID
	SupplementID   core.SupplementID
	SupplementName string

	// ControlDays before the start, TreatedDays after
	ControlDays int
	TreatedDays int

	// Metric series parameters: control days draw from
	// N(BaselineMean, Noise), treated days from N(BaselineMean+Lift, Noise)
	BaselineMean float64
	Lift         float64
	Noise        float64
	Metric       checkin.Metric

	// MoodLift shifts the mood bucket distribution on treated days when
	// the metric is mood
	MoodLift float64

	// AnchorDay is the last generated day; zero means an arbitrary
	// fixed date so runs stay reproducible
	AnchorDay core.Day

	Seed int64
}

// DefaultScenario returns a clear positive-effect trial
func DefaultScenario() ScenarioConfig {
	anchor, _ := core.ParseDay("2025-06-30")
	return ScenarioConfig{
		UserID:         "user-demo",
		SupplementID:   "supp-demo",
		SupplementName: "creatine",
		ControlDays:    30,
		TreatedDays:    30,
		BaselineMean:   6.0,
		Lift:           0.8,
		Noise:          0.5,
		Metric:         checkin.MetricSleep,
		AnchorDay:      anchor,
		Seed:           42,
	}
}

// Generator produces deterministic synthetic trials
type Generator struct {
	config ScenarioConfig
	rng    *rand.Rand
}

// NewGenerator creates a generator with the scenario's fixed seed.
// Unset user and supplement IDs are minted so ad-hoc scenarios do not
// collide in a shared store.
func NewGenerator(config ScenarioConfig) *Generator {
	if config.AnchorDay.IsZero() {
		config.AnchorDay, _ = core.ParseDay("2025-06-30")
	}
	if config.UserID == "" {
		config.UserID = core.UserID(core.NewID())
	}
	if config.SupplementID == "" {
		config.SupplementID = core.SupplementID(core.NewID())
	}
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Config returns the effective scenario, including any minted IDs
func (g *Generator) Config() ScenarioConfig {
	return g.config
}

// Populate writes a complete control-then-treated trial into the store:
// the supplement, one intake log per treated day, and one check-in per
// day across the whole span.
func (g *Generator) Populate(store *MemoryStore) {
	cfg := g.config
	store.AddSupplement(supplement.Supplement{
		ID:     cfg.SupplementID,
		UserID: cfg.UserID,
		Name:   cfg.SupplementName,
	})

	total := cfg.ControlDays + cfg.TreatedDays
	start := cfg.AnchorDay.AddDays(-(total - 1))

	for i := 0; i < total; i++ {
		day := start.AddDays(i)
		treated := i >= cfg.ControlDays

		if treated {
			store.AddIntake(supplement.IntakeLog{
				SupplementID: cfg.SupplementID,
				Day:          day,
				Taken:        true,
			})
		}

		store.AddEntry(g.entryFor(day, treated))
	}
}

func (g *Generator) entryFor(day core.Day, treated bool) checkin.DailyEntry {
	cfg := g.config
	entry := checkin.DailyEntry{
		UserID:  cfg.UserID,
		Day:     day,
		Metrics: map[checkin.Metric]float64{},
	}

	mean := cfg.BaselineMean
	if treated {
		mean += cfg.Lift
	}
	value := mean + g.rng.NormFloat64()*cfg.Noise
	if cfg.Metric.IsNumeric() {
		entry.Metrics[cfg.Metric] = value
	}

	mood := g.moodFor(treated)
	entry.Mood = &mood
	return entry
}

// moodFor draws a mood bucket; treated days lean sharp in proportion to
// MoodLift
func (g *Generator) moodFor(treated bool) checkin.MoodBucket {
	p := g.rng.Float64()
	lift := 0.0
	if treated {
		lift = g.config.MoodLift
	}
	switch {
	case p < 0.2-lift/2:
		return checkin.MoodLow
	case p < 0.7-lift:
		return checkin.MoodOK
	default:
		return checkin.MoodSharp
	}
}
