package engine

import (
	"context"
	"testing"

	"suppsignal/domain/core"
	"suppsignal/domain/supplement"
	"suppsignal/internal/testkit"
)

func addSupplementWithPeriod(store *testkit.MemoryStore, userID core.UserID, id core.SupplementID, name string, start core.Day) {
	store.AddSupplement(supplement.Supplement{ID: id, UserID: userID, Name: name})
	store.AddPeriod(supplement.Period{SupplementID: id, StartDay: start})
}

func TestConfoundDetector_SiblingStartedNearby(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemoryStore()
	userID := core.UserID("user-1")

	start := day(t, "2025-05-01")
	addSupplementWithPeriod(store, userID, "supp-target", "creatine", start)
	addSupplementWithPeriod(store, userID, "supp-near", "ashwagandha", start.AddDays(5))
	addSupplementWithPeriod(store, userID, "supp-far", "omega-3", start.AddDays(-60))

	set, err := NewConfoundDetector(store, nil).Detect(ctx, userID, "supp-target", start.AddDays(10))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	if len(set.Names) != 1 || set.Names[0] != "ashwagandha" {
		t.Fatalf("expected only the nearby sibling, got %v", set.Names)
	}
	if set.Resolved {
		t.Error("10 days in, the confound must not be resolved yet")
	}
}

func TestConfoundDetector_AgesOutAfterTwentyOneDays(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemoryStore()
	userID := core.UserID("user-1")

	start := day(t, "2025-05-01")
	addSupplementWithPeriod(store, userID, "supp-target", "creatine", start)
	addSupplementWithPeriod(store, userID, "supp-near", "ashwagandha", start.AddDays(3))

	set, err := NewConfoundDetector(store, nil).Detect(ctx, userID, "supp-target", start.AddDays(21))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !set.Resolved {
		t.Error("confound must be resolved 21 days after the target start")
	}
	if len(set.Names) != 1 {
		t.Errorf("the sibling is still named even when resolved, got %v", set.Names)
	}
}

func TestConfoundDetector_TargetIsNotItsOwnConfound(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemoryStore()
	userID := core.UserID("user-1")

	start := day(t, "2025-05-01")
	addSupplementWithPeriod(store, userID, "supp-target", "creatine", start)

	set, err := NewConfoundDetector(store, nil).Detect(ctx, userID, "supp-target", start.AddDays(5))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !set.Empty() {
		t.Errorf("expected no confounds, got %v", set.Names)
	}
}

func TestConfoundDetector_NoStartData(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemoryStore()
	store.AddSupplement(supplement.Supplement{ID: "supp-target", UserID: "user-1", Name: "creatine"})

	set, err := NewConfoundDetector(store, nil).Detect(ctx, "user-1", "supp-target", day(t, "2025-05-01"))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !set.Empty() || !set.Resolved {
		t.Errorf("a target with no recorded start yields an empty resolved set, got %+v", set)
	}
}

func TestConfoundDetector_IntakeRunStart(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemoryStore()
	userID := core.UserID("user-1")

	// Target start is derived from the unbroken run of intake logs: an
	// older block, a gap, then the current run starting 2025-05-10
	store.AddSupplement(supplement.Supplement{ID: "supp-target", UserID: userID, Name: "creatine"})
	for i := 0; i < 5; i++ {
		store.AddIntake(supplement.IntakeLog{SupplementID: "supp-target", Day: day(t, "2025-04-01").AddDays(i), Taken: true})
	}
	runStart := day(t, "2025-05-10")
	for i := 0; i < 6; i++ {
		store.AddIntake(supplement.IntakeLog{SupplementID: "supp-target", Day: runStart.AddDays(i), Taken: true})
	}

	// Sibling started near the current run, not near the old block
	addSupplementWithPeriod(store, userID, "supp-near", "ashwagandha", runStart.AddDays(2))

	set, err := NewConfoundDetector(store, nil).Detect(ctx, userID, "supp-target", runStart.AddDays(5))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if len(set.Names) != 1 || set.Names[0] != "ashwagandha" {
		t.Errorf("expected the sibling near the current run start, got %v", set.Names)
	}
}

func TestConfoundDetector_SiblingWithIntakeLogsOnly(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemoryStore()
	userID := core.UserID("user-1")

	start := day(t, "2025-05-01")
	addSupplementWithPeriod(store, userID, "supp-target", "creatine", start)

	// The sibling has no periods; its start is the first day of its
	// unbroken intake run
	store.AddSupplement(supplement.Supplement{ID: "supp-near", UserID: userID, Name: "ashwagandha"})
	for i := 0; i < 6; i++ {
		store.AddIntake(supplement.IntakeLog{SupplementID: "supp-near", Day: start.AddDays(4 + i), Taken: true})
	}

	set, err := NewConfoundDetector(store, nil).Detect(ctx, userID, "supp-target", start.AddDays(10))
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if len(set.Names) != 1 || set.Names[0] != "ashwagandha" {
		t.Errorf("expected the intake-run sibling to be named, got %v", set.Names)
	}
}

func TestCurrentRunStart(t *testing.T) {
	latest := mustDay("2025-05-15")
	logs := []supplement.IntakeLog{
		{Day: mustDay("2025-05-10"), Taken: true},
		{Day: mustDay("2025-05-11"), Taken: true},
		// gap on the 12th
		{Day: mustDay("2025-05-13"), Taken: true},
		{Day: mustDay("2025-05-14"), Taken: true},
		{Day: mustDay("2025-05-15"), Taken: true},
	}
	got := currentRunStart(logs, latest)
	if !got.Equal(mustDay("2025-05-13")) {
		t.Errorf("expected run start 2025-05-13, got %s", got)
	}
}

func mustDay(s string) core.Day {
	d, err := core.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}
