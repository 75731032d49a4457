package profiles

import (
	"sort"
	"strings"

	"suppsignal/domain/supplement"
	"suppsignal/internal/logging"
)

// Resolver maps free-text supplement names onto the reference table.
// Lookup order: exact match, case-insensitive partial match, generic
// default. Pure lookup, no I/O.
type Resolver struct {
	log *logging.Logger
}

// NewResolver creates a resolver backed by the embedded reference table
func NewResolver(log *logging.Logger) *Resolver {
	if log == nil {
		log = logging.DefaultLogger
	}
	return &Resolver{log: log.For("profiles")}
}

// Resolve returns the behavioral profile for a supplement name. Unknown
// names get the generic performance/30-day default rather than an error.
func (r *Resolver) Resolve(name string) supplement.Profile {
	if p, ok := registry[name]; ok {
		return p
	}

	if p, ok := r.partialMatch(name); ok {
		return p
	}

	r.log.Debug("no profile for %q, using generic default", name)
	return supplement.DefaultProfile(name)
}

// partialMatch finds case-insensitive substring matches in either
// direction. Among multiple candidates the longest canonical name wins;
// equal lengths fall back to lexicographic order so resolution stays
// deterministic.
func (r *Resolver) partialMatch(name string) (supplement.Profile, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return supplement.Profile{}, false
	}

	var candidates []string
	for canonical := range registry {
		if strings.Contains(needle, canonical) || strings.Contains(canonical, needle) {
			candidates = append(candidates, canonical)
		}
	}
	if len(candidates) == 0 {
		return supplement.Profile{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) > len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})

	return registry[candidates[0]], true
}
