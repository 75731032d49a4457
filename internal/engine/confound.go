package engine

import (
	"context"

	"suppsignal/domain/core"
	"suppsignal/domain/signal"
	"suppsignal/domain/supplement"
	"suppsignal/internal/errors"
	"suppsignal/internal/logging"
	"suppsignal/ports"
)

const (
	// confoundWindowDays is how close another supplement's start must be
	// to the target's to break attribution
	confoundWindowDays = 7
	// confoundAgeOutDays is how many days after the target's start
	// confounding is considered aged out
	confoundAgeOutDays = 21
)

// ConfoundDetector scans the rest of a user's stack for interventions
// started close enough to the target's start that observed effects
// cannot be attributed to the target alone.
type ConfoundDetector struct {
	supps ports.SupplementStore
	log   *logging.Logger
}

// NewConfoundDetector wires a detector against the supplement store
func NewConfoundDetector(supps ports.SupplementStore, log *logging.Logger) *ConfoundDetector {
	if log == nil {
		log = logging.DefaultLogger
	}
	return &ConfoundDetector{supps: supps, log: log.For("confound")}
}

// Detect returns the names of sibling supplements whose start dates fall
// within ±7 days of the target's most recent start, plus whether the
// confounding window has aged out as of the given day. The target itself
// is never a confound; a target with no recorded start yields an empty,
// resolved set. A resolved set still carries the sibling names so
// reports can mention them; it no longer blocks attribution.
func (d *ConfoundDetector) Detect(ctx context.Context, userID core.UserID, targetID core.SupplementID, asOf core.Day) (signal.ConfoundSet, error) {
	targetStart, ok, err := d.mostRecentStart(ctx, targetID)
	if err != nil {
		return signal.ConfoundSet{}, err
	}
	if !ok {
		// No period or intake data means nothing to attribute against
		return signal.ConfoundSet{Resolved: true}, nil
	}

	siblings, err := d.supps.ListByUser(ctx, userID)
	if err != nil {
		return signal.ConfoundSet{}, errors.LookupFailed("user stack", err)
	}

	set := signal.ConfoundSet{
		Resolved: asOf.DaysSince(targetStart) >= confoundAgeOutDays,
	}
	for _, sib := range siblings {
		if sib.ID == targetID {
			continue
		}
		starts, err := d.startDays(ctx, sib.ID)
		if err != nil {
			// Advisory lookup: a broken sibling record must not sink the
			// whole analysis
			d.log.Warn("skipping sibling %s: %v", sib.Name, err)
			continue
		}
		d.log.Trace("sibling %s start days: %v", sib.Name, starts)
		for _, s := range starts {
			if s.WithinDays(targetStart, confoundWindowDays) {
				set.Names = append(set.Names, sib.Name)
				break
			}
		}
	}

	if !set.Empty() {
		d.log.Debug("found %d confounds near start %s", len(set.Names), targetStart)
	}
	return set, nil
}

// startDays collects a sibling's candidate start dates: every recorded
// period start, or the start of its current intake run when it has no
// periods
func (d *ConfoundDetector) startDays(ctx context.Context, id core.SupplementID) ([]core.Day, error) {
	periods, err := d.supps.Periods(ctx, id)
	if err != nil {
		return nil, errors.LookupFailed("supplement periods", err)
	}
	if len(periods) > 0 {
		days := make([]core.Day, 0, len(periods))
		for _, p := range periods {
			days = append(days, p.StartDay)
		}
		return days, nil
	}

	start, ok, err := d.mostRecentStart(ctx, id)
	if err != nil || !ok {
		return nil, err
	}
	return []core.Day{start}, nil
}

// mostRecentStart finds the latest start date for a supplement: the
// latest period start when periods exist, otherwise the first day of the
// latest unbroken run of intake logs.
func (d *ConfoundDetector) mostRecentStart(ctx context.Context, id core.SupplementID) (core.Day, bool, error) {
	periods, err := d.supps.Periods(ctx, id)
	if err != nil {
		return core.Day{}, false, errors.LookupFailed("supplement periods", err)
	}
	if len(periods) > 0 {
		latest := periods[0].StartDay
		for _, p := range periods[1:] {
			if p.StartDay.After(latest) {
				latest = p.StartDay
			}
		}
		return latest, true, nil
	}

	latestIntake, ok, err := d.supps.LatestIntakeDay(ctx, id)
	if err != nil {
		return core.Day{}, false, errors.LookupFailed("latest intake day", err)
	}
	if !ok {
		return core.Day{}, false, nil
	}

	// Walk the trailing year of logs back from the latest intake to find
	// where the current run began
	logs, err := d.supps.IntakeLogs(ctx, id, latestIntake.AddDays(-365), latestIntake)
	if err != nil {
		return core.Day{}, false, errors.LookupFailed("intake logs", err)
	}
	return currentRunStart(logs, latestIntake), true, nil
}

// currentRunStart returns the first day of the unbroken taken-run ending
// at latest. A gap of more than one untaken day breaks the run.
func currentRunStart(logs []supplement.IntakeLog, latest core.Day) core.Day {
	takenByDay := make(map[string]bool, len(logs))
	for _, l := range logs {
		if l.Taken {
			takenByDay[l.Day.String()] = true
		}
	}

	start := latest
	for d := latest.AddDays(-1); takenByDay[d.String()]; d = d.AddDays(-1) {
		start = d
	}
	return start
}
