package ports

import (
	"suppsignal/domain/supplement"
)

// ProfileStore resolves free-text supplement names to behavioral
// profiles. Implementations are pure lookups against read-only reference
// data; no network, no failure mode beyond the generic default.
type ProfileStore interface {
	// Resolve maps a supplement name to its profile, falling back to the
	// generic default for unknown names. Never returns an error: an
	// unresolvable name is a normal outcome, not a failure.
	Resolve(name string) supplement.Profile
}
