package ports

import (
	"context"

	"suppsignal/domain/baseline"
	"suppsignal/domain/core"
)

// BaselineStore persists per-user calibration records. The calibrator is
// the only writer; last write wins is acceptable because recomputation
// is idempotent given the same history.
type BaselineStore interface {
	// GetBaseline returns the stored baseline for the user, or nil if
	// the user has never been calibrated
	GetBaseline(ctx context.Context, userID core.UserID) (*baseline.UserBaseline, error)

	// PutBaseline replaces the stored baseline for the user
	PutBaseline(ctx context.Context, b baseline.UserBaseline) error
}
