package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema holds the engine's lookup tables. Idempotent: safe to run on
// every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS daily_checkins (
		user_id TEXT NOT NULL,
		day DATE NOT NULL,
		mood TEXT,
		sleep_quality DOUBLE PRECISION,
		energy DOUBLE PRECISION,
		focus DOUBLE PRECISION,
		PRIMARY KEY (user_id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS supplements (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_supplements_user ON supplements (user_id)`,
	`CREATE TABLE IF NOT EXISTS intake_logs (
		supplement_id TEXT NOT NULL,
		day DATE NOT NULL,
		taken BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (supplement_id, day)
	)`,
	`CREATE TABLE IF NOT EXISTS supplement_periods (
		supplement_id TEXT NOT NULL,
		start_day DATE NOT NULL,
		end_day DATE,
		PRIMARY KEY (supplement_id, start_day)
	)`,
	`CREATE TABLE IF NOT EXISTS user_baselines (
		user_id TEXT PRIMARY KEY,
		calibration_complete BOOLEAN NOT NULL DEFAULT FALSE,
		calibration_days INT NOT NULL DEFAULT 0,
		stress_level TEXT,
		low_ratio DOUBLE PRECISION NOT NULL DEFAULT 0,
		sharp_ratio DOUBLE PRECISION NOT NULL DEFAULT 0,
		volatility DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates all engine tables if they do not exist
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
