package engine

import (
	"context"

	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/domain/signal"
	"suppsignal/domain/supplement"
	"suppsignal/internal/errors"
	"suppsignal/internal/logging"
	"suppsignal/ports"
)

// WindowBuilder materializes the per-day analysis window from raw logs.
// Exactly one DayRow per calendar day in the trailing window, tagged
// treated or control, carrying the observed metric value if any.
type WindowBuilder struct {
	checkins ports.CheckinStore
	supps    ports.SupplementStore
	log      *logging.Logger
}

// NewWindowBuilder wires a window builder against the lookup stores
func NewWindowBuilder(checkins ports.CheckinStore, supps ports.SupplementStore, log *logging.Logger) *WindowBuilder {
	if log == nil {
		log = logging.DefaultLogger
	}
	return &WindowBuilder{checkins: checkins, supps: supps, log: log.For("window")}
}

// Build walks backward from the anchor date producing one row per
// calendar day. The anchor is the most recent date carrying either an
// intake log or a metric entry, not necessarily today, so backfilled
// history analyzes the same as live data. Returns an empty slice when
// the user has no data at all; the caller treats that as insufficient.
func (b *WindowBuilder) Build(ctx context.Context, userID core.UserID, supplementID core.SupplementID,
	window signal.WindowLength, metric checkin.Metric) ([]checkin.DayRow, error) {

	if err := window.Validate(); err != nil {
		return nil, errors.InvalidInput(err.Error())
	}

	anchor, ok, err := b.anchorDay(ctx, userID, supplementID)
	if err != nil {
		return nil, err
	}
	if !ok {
		b.log.Debug("no entries or intake logs for user=%s supplement=%s", userID, supplementID)
		return nil, nil
	}

	from := anchor.AddDays(-(int(window) - 1))

	entries, err := b.checkins.EntriesBetween(ctx, userID, from, anchor)
	if err != nil {
		return nil, errors.LookupFailed("check-in entries", err)
	}
	entryByDay := make(map[string]checkin.DailyEntry, len(entries))
	for _, e := range entries {
		entryByDay[e.Day.String()] = e
	}

	treatedFn, err := b.treatmentFn(ctx, supplementID, from, anchor)
	if err != nil {
		return nil, err
	}

	rows := make([]checkin.DayRow, 0, int(window))
	for d := from; !d.After(anchor); d = d.AddDays(1) {
		row := checkin.DayRow{Day: d, Treated: treatedFn(d)}
		if e, found := entryByDay[d.String()]; found {
			row.Mood = e.Mood
			if metric.IsNumeric() {
				if v, has := e.MetricValue(metric); has {
					value := v
					row.MetricValue = &value
				}
			}
		}
		rows = append(rows, row)
	}

	usable := 0
	for _, row := range rows {
		if row.HasValue(metric) {
			usable++
		}
	}
	b.log.Debug("built window of %d rows (%d usable for %s), anchor=%s", len(rows), usable, metric, anchor)
	return rows, nil
}

// anchorDay finds the most recent day with either a metric entry or an
// intake log
func (b *WindowBuilder) anchorDay(ctx context.Context, userID core.UserID, supplementID core.SupplementID) (core.Day, bool, error) {
	entryDay, hasEntry, err := b.checkins.LatestEntryDay(ctx, userID)
	if err != nil {
		return core.Day{}, false, errors.LookupFailed("latest entry day", err)
	}
	intakeDay, hasIntake, err := b.supps.LatestIntakeDay(ctx, supplementID)
	if err != nil {
		return core.Day{}, false, errors.LookupFailed("latest intake day", err)
	}

	switch {
	case hasEntry && hasIntake:
		if intakeDay.After(entryDay) {
			return intakeDay, true, nil
		}
		return entryDay, true, nil
	case hasEntry:
		return entryDay, true, nil
	case hasIntake:
		return intakeDay, true, nil
	default:
		return core.Day{}, false, nil
	}
}

// treatmentFn returns the day->treated predicate. Explicit intake logs
// take precedence; period ranges are consulted only when the supplement
// has no intake logs at all.
func (b *WindowBuilder) treatmentFn(ctx context.Context, supplementID core.SupplementID, from, to core.Day) (func(core.Day) bool, error) {
	logs, err := b.supps.IntakeLogs(ctx, supplementID, from, to)
	if err != nil {
		return nil, errors.LookupFailed("intake logs", err)
	}

	_, hasAnyIntake, err := b.supps.LatestIntakeDay(ctx, supplementID)
	if err != nil {
		return nil, errors.LookupFailed("latest intake day", err)
	}

	if hasAnyIntake {
		takenByDay := make(map[string]bool, len(logs))
		for _, l := range logs {
			takenByDay[l.Day.String()] = l.Taken
		}
		return func(d core.Day) bool {
			return takenByDay[d.String()]
		}, nil
	}

	periods, err := b.supps.Periods(ctx, supplementID)
	if err != nil {
		return nil, errors.LookupFailed("supplement periods", err)
	}
	return func(d core.Day) bool {
		return inAnyPeriod(periods, d)
	}, nil
}

func inAnyPeriod(periods []supplement.Period, d core.Day) bool {
	for _, p := range periods {
		if p.Contains(d) {
			return true
		}
	}
	return false
}
