// Command demo runs the signal engine over a synthetic supplement trial
// and prints the resulting snapshot. Useful for eyeballing verdicts
// without a database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"suppsignal/adapters/rng"
	"suppsignal/domain/checkin"
	"suppsignal/domain/signal"
	"suppsignal/internal/engine"
	"suppsignal/internal/logging"
	"suppsignal/internal/profiles"
	"suppsignal/internal/testkit"
)

func main() {
	cfg := testkit.DefaultScenario()
	if len(os.Args) > 1 {
		cfg.SupplementName = os.Args[1]
	}
	if len(os.Args) > 2 {
		if lift, err := strconv.ParseFloat(os.Args[2], 64); err == nil {
			cfg.Lift = lift
		}
	}

	store := testkit.NewMemoryStore()
	testkit.NewGenerator(cfg).Populate(store)

	logger := logging.NewDefaultLogger()
	eng := engine.New(engine.Deps{
		Checkins:    store,
		Supplements: store,
		Baselines:   store,
		Profiles:    profiles.NewResolver(logger),
		RNG:         rng.NewSeededAdapter(),
		Logger:      logger,
		BaseSeed:    cfg.Seed,
	})

	snap, err := eng.Analyze(context.Background(), cfg.UserID, cfg.SupplementID, signal.Window90, cfg.Metric)
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	fmt.Printf("supplement:  %s\n", cfg.SupplementName)
	fmt.Printf("metric:      %s\n", cfg.Metric)
	fmt.Printf("status:      %s\n", snap.Status)
	fmt.Printf("treated n:   %d\n", snap.N)
	fmt.Printf("effect:      %+d%%\n", snap.EffectPct)
	fmt.Printf("confidence:  %d%%\n", snap.Confidence)
	if snap.Pattern != nil {
		fmt.Printf("pattern:     %s\n", *snap.Pattern)
	}
	if snap.VarianceReduction != nil {
		fmt.Printf("variance:    %.0f%% reduction\n", *snap.VarianceReduction)
	}
	for _, w := range snap.Warnings {
		fmt.Printf("warning:     %s\n", w)
	}
	fmt.Printf("\n%s\n", snap.Explanation)

	// Mood view of the same trial
	moodSnap, err := eng.Analyze(context.Background(), cfg.UserID, cfg.SupplementID, signal.Window90, checkin.MetricMood)
	if err != nil {
		log.Fatalf("analyze mood: %v", err)
	}
	fmt.Printf("\nmood status: %s (effect %+d%%, confidence %d%%)\n",
		moodSnap.Status, moodSnap.EffectPct, moodSnap.Confidence)
}
