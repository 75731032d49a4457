package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"suppsignal/domain/core"
	"suppsignal/domain/supplement"
	"suppsignal/ports"
)

// SupplementRepository implements ports.SupplementStore for PostgreSQL
type SupplementRepository struct {
	db *sqlx.DB
}

// NewSupplementRepository creates a new PostgreSQL supplement repository
func NewSupplementRepository(db *sqlx.DB) ports.SupplementStore {
	return &SupplementRepository{db: db}
}

type supplementRow struct {
	ID     string `db:"id"`
	UserID string `db:"user_id"`
	Name   string `db:"name"`
}

func (r supplementRow) toDomain() supplement.Supplement {
	return supplement.Supplement{
		ID:     core.SupplementID(r.ID),
		UserID: core.UserID(r.UserID),
		Name:   r.Name,
	}
}

// GetSupplement returns the supplement by id, or nil if it does not exist
func (r *SupplementRepository) GetSupplement(ctx context.Context, id core.SupplementID) (*supplement.Supplement, error) {
	var row supplementRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, user_id, name FROM supplements WHERE id = $1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s := row.toDomain()
	return &s, nil
}

// ListByUser returns every supplement in the user's stack
func (r *SupplementRepository) ListByUser(ctx context.Context, userID core.UserID) ([]supplement.Supplement, error) {
	var rows []supplementRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, name FROM supplements
		WHERE user_id = $1
		ORDER BY name ASC
	`, userID.String())
	if err != nil {
		return nil, err
	}

	supps := make([]supplement.Supplement, 0, len(rows))
	for _, row := range rows {
		supps = append(supps, row.toDomain())
	}
	return supps, nil
}

// IntakeLogs returns all explicit intake logs for the supplement in [from, to]
func (r *SupplementRepository) IntakeLogs(ctx context.Context, id core.SupplementID, from, to core.Day) ([]supplement.IntakeLog, error) {
	var rows []struct {
		SupplementID string    `db:"supplement_id"`
		Day          time.Time `db:"day"`
		Taken        bool      `db:"taken"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT supplement_id, day, taken FROM intake_logs
		WHERE supplement_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day ASC
	`, id.String(), from.Time(), to.Time())
	if err != nil {
		return nil, err
	}

	logs := make([]supplement.IntakeLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, supplement.IntakeLog{
			SupplementID: core.SupplementID(row.SupplementID),
			Day:          core.NewDay(row.Day),
			Taken:        row.Taken,
		})
	}
	return logs, nil
}

// LatestIntakeDay returns the most recent day with an intake log for the supplement
func (r *SupplementRepository) LatestIntakeDay(ctx context.Context, id core.SupplementID) (core.Day, bool, error) {
	var day time.Time
	err := r.db.GetContext(ctx, &day, `
		SELECT day FROM intake_logs
		WHERE supplement_id = $1
		ORDER BY day DESC
		LIMIT 1
	`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return core.Day{}, false, nil
	}
	if err != nil {
		return core.Day{}, false, err
	}
	return core.NewDay(day), true, nil
}

// Periods returns all recorded start/end periods for the supplement
func (r *SupplementRepository) Periods(ctx context.Context, id core.SupplementID) ([]supplement.Period, error) {
	var rows []struct {
		SupplementID string       `db:"supplement_id"`
		StartDay     time.Time    `db:"start_day"`
		EndDay       sql.NullTime `db:"end_day"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT supplement_id, start_day, end_day FROM supplement_periods
		WHERE supplement_id = $1
		ORDER BY start_day ASC
	`, id.String())
	if err != nil {
		return nil, err
	}

	periods := make([]supplement.Period, 0, len(rows))
	for _, row := range rows {
		p := supplement.Period{
			SupplementID: core.SupplementID(row.SupplementID),
			StartDay:     core.NewDay(row.StartDay),
		}
		if row.EndDay.Valid {
			end := core.NewDay(row.EndDay.Time)
			p.EndDay = &end
		}
		periods = append(periods, p)
	}
	return periods, nil
}
