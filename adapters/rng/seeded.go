// Package rng provides the deterministic random source the bootstrap
// runs on. Streams are derived from stable identifiers so the same
// analysis always resamples the same way.
package rng

import (
	"context"
	"math/rand"
)

// SeededAdapter implements ports.RNGPort with hash-derived streams
type SeededAdapter struct{}

// NewSeededAdapter creates the adapter
func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *SeededAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(seed + int64(hashString(name)))), nil
}

// Stream creates a deterministic RNG stream for a specific analysis.
// The seed mixes user, supplement and operation so distinct analyses get
// independent streams while repeat calls stay identical.
func (a *SeededAdapter) Stream(ctx context.Context, userID, supplementID, operation string, baseSeed int64) (*rand.Rand, error) {
	seed := baseSeed
	if userID != "" {
		seed += int64(hashString(userID))
	}
	if supplementID != "" {
		seed += int64(hashString(supplementID))
	}
	if operation != "" {
		seed += int64(hashString(operation))
	}
	return rand.New(rand.NewSource(seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
