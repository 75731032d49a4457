package ports

import (
	"context"

	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/domain/signal"
)

// Analyzer is the engine's single entry point, exposed as a port so the
// API layer can be tested against a fake. One call, one fresh snapshot.
type Analyzer interface {
	Analyze(ctx context.Context, userID core.UserID, supplementID core.SupplementID,
		window signal.WindowLength, metric checkin.Metric) (*signal.Snapshot, error)
}
