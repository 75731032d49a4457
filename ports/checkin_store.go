package ports

import (
	"context"

	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
)

// CheckinStore provides read access to daily check-in entries.
// The engine only ever reads; writes belong to the intake layer.
type CheckinStore interface {
	// EntriesBetween returns all entries for the user in [from, to],
	// inclusive, ordered by day ascending
	EntriesBetween(ctx context.Context, userID core.UserID, from, to core.Day) ([]checkin.DailyEntry, error)

	// LatestEntryDay returns the most recent day with any entry for the
	// user, and false if the user has no entries at all
	LatestEntryDay(ctx context.Context, userID core.UserID) (core.Day, bool, error)

	// MoodHistory returns up to limit days of mood check-ins ending at
	// the user's latest entry, ordered by day ascending
	MoodHistory(ctx context.Context, userID core.UserID, limit int) ([]checkin.DailyEntry, error)
}
