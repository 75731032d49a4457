package supplement

import (
	"suppsignal/domain/core"
)

// Category classifies how a supplement is expected to act. The compose
// step switches exhaustively on this; adding a category means visiting
// every switch.
type Category string

const (
	// CategoryPerformance covers supplements expected to move the mean
	// of a metric (creatine, caffeine, tyrosine)
	CategoryPerformance Category = "performance"
	// CategoryProtective covers supplements expected to reduce
	// variability or decline rather than lift the mean (omega-3,
	// magnesium for sleep stability)
	CategoryProtective Category = "protective"
	// CategorySynergistic covers supplements whose effect depends on
	// stack context but is judged like performance
	CategorySynergistic Category = "synergistic"
)

// Valid reports whether the category is one of the known values
func (c Category) Valid() bool {
	switch c {
	case CategoryPerformance, CategoryProtective, CategorySynergistic:
		return true
	}
	return false
}

// LiteratureEffect summarizes what published evidence expects
type LiteratureEffect string

const (
	EffectPositive   LiteratureEffect = "positive"
	EffectProtective LiteratureEffect = "protective"
	EffectMinimal    LiteratureEffect = "minimal"
)

// Profile describes the behavioral profile of one supplement: how long
// it takes to work, whether it has a loading phase, whether tolerance
// builds. Read-only during analysis.
type Profile struct {
	Name                 string
	Category             Category
	ExpectedWindowDays   int
	LoadingPhaseDays     *int
	PeakEffectDays       *int
	BuildsTolerance      bool
	ToleranceDays        *int
	LiteratureEffect     LiteratureEffect
	LiteratureConfidence float64 // [0,1]
}

// DefaultProfile returns the generic fallback used when a supplement
// name resolves to nothing in the reference table
func DefaultProfile(name string) Profile {
	return Profile{
		Name:                 name,
		Category:             CategoryPerformance,
		ExpectedWindowDays:   30,
		BuildsTolerance:      false,
		LiteratureEffect:     EffectMinimal,
		LiteratureConfidence: 0.5,
	}
}

// InLoadingPhase reports whether the supplement is still inside its
// loading window after treatedDays days of use
func (p Profile) InLoadingPhase(treatedDays int) bool {
	return p.LoadingPhaseDays != nil && treatedDays < *p.LoadingPhaseDays
}

// Supplement is one tracked item in a user's stack
type Supplement struct {
	ID     core.SupplementID
	UserID core.UserID
	Name   string
}

// IntakeLog records whether the supplement was taken on a specific day.
// Explicit logs always beat period ranges when both exist.
type IntakeLog struct {
	SupplementID core.SupplementID
	Day          core.Day
	Taken        bool
}

// Period is a coarse start/end range during which the supplement was
// being taken; EndDay nil means ongoing
type Period struct {
	SupplementID core.SupplementID
	StartDay     core.Day
	EndDay       *core.Day
}

// Contains reports whether the given day falls inside the period
func (p Period) Contains(d core.Day) bool {
	if d.Before(p.StartDay) {
		return false
	}
	if p.EndDay != nil && d.After(*p.EndDay) {
		return false
	}
	return true
}
