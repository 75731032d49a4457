package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)

	// Stream creates a deterministic RNG stream for a specific analysis.
	// This ensures the bootstrap produces identical confidence values for
	// the same user/supplement/window combination.
	Stream(ctx context.Context, userID, supplementID, operation string, baseSeed int64) (*rand.Rand, error)
}
