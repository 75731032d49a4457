package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/ports"
)

// CheckinRepository implements ports.CheckinStore for PostgreSQL
type CheckinRepository struct {
	db *sqlx.DB
}

// NewCheckinRepository creates a new PostgreSQL check-in repository
func NewCheckinRepository(db *sqlx.DB) *CheckinRepository {
	return &CheckinRepository{db: db}
}

var _ ports.CheckinStore = (*CheckinRepository)(nil)

type checkinRow struct {
	UserID       string          `db:"user_id"`
	Day          time.Time       `db:"day"`
	Mood         sql.NullString  `db:"mood"`
	SleepQuality sql.NullFloat64 `db:"sleep_quality"`
	Energy       sql.NullFloat64 `db:"energy"`
	Focus        sql.NullFloat64 `db:"focus"`
}

func (r checkinRow) toEntry() checkin.DailyEntry {
	e := checkin.DailyEntry{
		UserID:  core.UserID(r.UserID),
		Day:     core.NewDay(r.Day),
		Metrics: map[checkin.Metric]float64{},
	}
	if r.Mood.Valid {
		m := checkin.MoodBucket(r.Mood.String)
		e.Mood = &m
	}
	if r.SleepQuality.Valid {
		e.Metrics[checkin.MetricSleep] = r.SleepQuality.Float64
	}
	if r.Energy.Valid {
		e.Metrics[checkin.MetricEnergy] = r.Energy.Float64
	}
	if r.Focus.Valid {
		e.Metrics[checkin.MetricFocus] = r.Focus.Float64
	}
	return e
}

// EntriesBetween returns all entries for the user in [from, to] ordered by day
func (r *CheckinRepository) EntriesBetween(ctx context.Context, userID core.UserID, from, to core.Day) ([]checkin.DailyEntry, error) {
	var rows []checkinRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT user_id, day, mood, sleep_quality, energy, focus
		FROM daily_checkins
		WHERE user_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day ASC
	`, userID.String(), from.Time(), to.Time())
	if err != nil {
		return nil, err
	}

	entries := make([]checkin.DailyEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}

// LatestEntryDay returns the most recent day with any entry for the user
func (r *CheckinRepository) LatestEntryDay(ctx context.Context, userID core.UserID) (core.Day, bool, error) {
	var day time.Time
	err := r.db.GetContext(ctx, &day, `
		SELECT day FROM daily_checkins
		WHERE user_id = $1
		ORDER BY day DESC
		LIMIT 1
	`, userID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.Day{}, false, nil
	}
	if err != nil {
		return core.Day{}, false, err
	}
	return core.NewDay(day), true, nil
}

// UpsertEntries writes imported check-in entries, replacing any existing
// row for the same user and day. Used by the import command, never the
// engine.
func (r *CheckinRepository) UpsertEntries(ctx context.Context, entries []checkin.DailyEntry) error {
	for _, e := range entries {
		var mood sql.NullString
		if e.Mood != nil {
			mood = sql.NullString{String: string(*e.Mood), Valid: true}
		}
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO daily_checkins (user_id, day, mood, sleep_quality, energy, focus)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (user_id, day) DO UPDATE SET
				mood = EXCLUDED.mood,
				sleep_quality = EXCLUDED.sleep_quality,
				energy = EXCLUDED.energy,
				focus = EXCLUDED.focus
		`, e.UserID.String(), e.Day.Time(),
			mood,
			nullMetric(e, checkin.MetricSleep),
			nullMetric(e, checkin.MetricEnergy),
			nullMetric(e, checkin.MetricFocus))
		if err != nil {
			return err
		}
	}
	return nil
}

func nullMetric(e checkin.DailyEntry, m checkin.Metric) sql.NullFloat64 {
	if v, ok := e.MetricValue(m); ok {
		return sql.NullFloat64{Float64: v, Valid: true}
	}
	return sql.NullFloat64{}
}

// MoodHistory returns up to limit days of mood check-ins ending at the
// user's latest entry, ordered by day ascending
func (r *CheckinRepository) MoodHistory(ctx context.Context, userID core.UserID, limit int) ([]checkin.DailyEntry, error) {
	var rows []checkinRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT user_id, day, mood, sleep_quality, energy, focus
		FROM (
			SELECT user_id, day, mood, sleep_quality, energy, focus
			FROM daily_checkins
			WHERE user_id = $1 AND mood IS NOT NULL
			ORDER BY day DESC
			LIMIT $2
		) recent
		ORDER BY day ASC
	`, userID.String(), limit)
	if err != nil {
		return nil, err
	}

	entries := make([]checkin.DailyEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toEntry())
	}
	return entries, nil
}
