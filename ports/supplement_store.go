package ports

import (
	"context"

	"suppsignal/domain/core"
	"suppsignal/domain/supplement"
)

// SupplementStore provides read access to a user's supplement stack,
// intake logs and period ranges
type SupplementStore interface {
	// GetSupplement returns the supplement by id
	GetSupplement(ctx context.Context, id core.SupplementID) (*supplement.Supplement, error)

	// ListByUser returns every supplement in the user's stack
	ListByUser(ctx context.Context, userID core.UserID) ([]supplement.Supplement, error)

	// IntakeLogs returns all explicit intake logs for the supplement in
	// [from, to], inclusive, ordered by day ascending
	IntakeLogs(ctx context.Context, id core.SupplementID, from, to core.Day) ([]supplement.IntakeLog, error)

	// LatestIntakeDay returns the most recent day with an intake log for
	// the supplement, and false if none exist
	LatestIntakeDay(ctx context.Context, id core.SupplementID) (core.Day, bool, error)

	// Periods returns all recorded start/end periods for the supplement,
	// ordered by start day ascending
	Periods(ctx context.Context, id core.SupplementID) ([]supplement.Period, error)
}
