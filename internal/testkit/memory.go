// Package testkit provides in-memory store implementations and a
// deterministic scenario generator used by the engine tests and the
// demo CLI.
package testkit

import (
	"context"
	"sort"
	"sync"

	"suppsignal/domain/baseline"
	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/domain/supplement"
)

// MemoryStore is an in-memory implementation of the engine's lookup
// ports. Safe for concurrent reads; writes happen during scenario setup.
type MemoryStore struct {
	mu          sync.RWMutex
	entries     map[core.UserID][]checkin.DailyEntry
	supplements map[core.SupplementID]supplement.Supplement
	intake      map[core.SupplementID][]supplement.IntakeLog
	periods     map[core.SupplementID][]supplement.Period
	baselines   map[core.UserID]baseline.UserBaseline
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:     map[core.UserID][]checkin.DailyEntry{},
		supplements: map[core.SupplementID]supplement.Supplement{},
		intake:      map[core.SupplementID][]supplement.IntakeLog{},
		periods:     map[core.SupplementID][]supplement.Period{},
		baselines:   map[core.UserID]baseline.UserBaseline{},
	}
}

// AddEntry records a daily check-in entry
func (m *MemoryStore) AddEntry(e checkin.DailyEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.UserID] = append(m.entries[e.UserID], e)
	sort.Slice(m.entries[e.UserID], func(i, j int) bool {
		return m.entries[e.UserID][i].Day.Before(m.entries[e.UserID][j].Day)
	})
}

// AddSupplement registers a supplement in a user's stack
func (m *MemoryStore) AddSupplement(s supplement.Supplement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supplements[s.ID] = s
}

// AddIntake records an explicit intake log
func (m *MemoryStore) AddIntake(l supplement.IntakeLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intake[l.SupplementID] = append(m.intake[l.SupplementID], l)
	sort.Slice(m.intake[l.SupplementID], func(i, j int) bool {
		return m.intake[l.SupplementID][i].Day.Before(m.intake[l.SupplementID][j].Day)
	})
}

// AddPeriod records a start/end period
func (m *MemoryStore) AddPeriod(p supplement.Period) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.periods[p.SupplementID] = append(m.periods[p.SupplementID], p)
}

// EntriesBetween implements ports.CheckinStore
func (m *MemoryStore) EntriesBetween(ctx context.Context, userID core.UserID, from, to core.Day) ([]checkin.DailyEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []checkin.DailyEntry
	for _, e := range m.entries[userID] {
		if !e.Day.Before(from) && !e.Day.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

// LatestEntryDay implements ports.CheckinStore
func (m *MemoryStore) LatestEntryDay(ctx context.Context, userID core.UserID) (core.Day, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.entries[userID]
	if len(entries) == 0 {
		return core.Day{}, false, nil
	}
	return entries[len(entries)-1].Day, true, nil
}

// MoodHistory implements ports.CheckinStore
func (m *MemoryStore) MoodHistory(ctx context.Context, userID core.UserID, limit int) ([]checkin.DailyEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var mood []checkin.DailyEntry
	for _, e := range m.entries[userID] {
		if e.Mood != nil {
			mood = append(mood, e)
		}
	}
	if len(mood) > limit {
		mood = mood[len(mood)-limit:]
	}
	return mood, nil
}

// GetSupplement implements ports.SupplementStore
func (m *MemoryStore) GetSupplement(ctx context.Context, id core.SupplementID) (*supplement.Supplement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.supplements[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// ListByUser implements ports.SupplementStore
func (m *MemoryStore) ListByUser(ctx context.Context, userID core.UserID) ([]supplement.Supplement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []supplement.Supplement
	for _, s := range m.supplements {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// IntakeLogs implements ports.SupplementStore
func (m *MemoryStore) IntakeLogs(ctx context.Context, id core.SupplementID, from, to core.Day) ([]supplement.IntakeLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []supplement.IntakeLog
	for _, l := range m.intake[id] {
		if !l.Day.Before(from) && !l.Day.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

// LatestIntakeDay implements ports.SupplementStore
func (m *MemoryStore) LatestIntakeDay(ctx context.Context, id core.SupplementID) (core.Day, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	logs := m.intake[id]
	if len(logs) == 0 {
		return core.Day{}, false, nil
	}
	return logs[len(logs)-1].Day, true, nil
}

// Periods implements ports.SupplementStore
func (m *MemoryStore) Periods(ctx context.Context, id core.SupplementID) ([]supplement.Period, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]supplement.Period(nil), m.periods[id]...), nil
}

// GetBaseline implements ports.BaselineStore
func (m *MemoryStore) GetBaseline(ctx context.Context, userID core.UserID) (*baseline.UserBaseline, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.baselines[userID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// PutBaseline implements ports.BaselineStore
func (m *MemoryStore) PutBaseline(ctx context.Context, b baseline.UserBaseline) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baselines[b.UserID] = b
	return nil
}
