package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"suppsignal/domain/baseline"
	"suppsignal/domain/core"
	"suppsignal/ports"
)

// BaselineRepository implements ports.BaselineStore for PostgreSQL.
// The calibrator is the only writer; the upsert gives last-write-wins.
type BaselineRepository struct {
	db *sqlx.DB
}

// NewBaselineRepository creates a new PostgreSQL baseline repository
func NewBaselineRepository(db *sqlx.DB) ports.BaselineStore {
	return &BaselineRepository{db: db}
}

type baselineRow struct {
	UserID              string         `db:"user_id"`
	CalibrationComplete bool           `db:"calibration_complete"`
	CalibrationDays     int            `db:"calibration_days"`
	StressLevel         sql.NullString `db:"stress_level"`
	LowRatio            float64        `db:"low_ratio"`
	SharpRatio          float64        `db:"sharp_ratio"`
	Volatility          float64        `db:"volatility"`
	UpdatedAt           time.Time      `db:"updated_at"`
}

// GetBaseline returns the stored baseline for the user, or nil if absent
func (r *BaselineRepository) GetBaseline(ctx context.Context, userID core.UserID) (*baseline.UserBaseline, error) {
	var row baselineRow
	err := r.db.GetContext(ctx, &row, `
		SELECT user_id, calibration_complete, calibration_days, stress_level,
		       low_ratio, sharp_ratio, volatility, updated_at
		FROM user_baselines
		WHERE user_id = $1
	`, userID.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	b := baseline.UserBaseline{
		UserID:              core.UserID(row.UserID),
		CalibrationComplete: row.CalibrationComplete,
		CalibrationDays:     row.CalibrationDays,
		LowRatio:            row.LowRatio,
		SharpRatio:          row.SharpRatio,
		Volatility:          row.Volatility,
		UpdatedAt:           core.NewTimestamp(row.UpdatedAt),
	}
	if row.StressLevel.Valid {
		level := baseline.StressLevel(row.StressLevel.String)
		b.StressLevel = &level
	}
	return &b, nil
}

// PutBaseline replaces the stored baseline for the user
func (r *BaselineRepository) PutBaseline(ctx context.Context, b baseline.UserBaseline) error {
	var stress sql.NullString
	if b.StressLevel != nil {
		stress = sql.NullString{String: string(*b.StressLevel), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_baselines
			(user_id, calibration_complete, calibration_days, stress_level,
			 low_ratio, sharp_ratio, volatility, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			calibration_complete = EXCLUDED.calibration_complete,
			calibration_days = EXCLUDED.calibration_days,
			stress_level = EXCLUDED.stress_level,
			low_ratio = EXCLUDED.low_ratio,
			sharp_ratio = EXCLUDED.sharp_ratio,
			volatility = EXCLUDED.volatility,
			updated_at = NOW()
	`, b.UserID.String(), b.CalibrationComplete, b.CalibrationDays, stress,
		b.LowRatio, b.SharpRatio, b.Volatility)
	return err
}
