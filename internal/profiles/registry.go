// Package profiles holds the read-only supplement reference table and
// the name resolver that maps free-text stack entries onto it.
package profiles

import (
	"suppsignal/domain/supplement"
)

func intPtr(n int) *int { return &n }

// registry is the behavioral reference table. Keys are canonical names;
// resolution is exact first, then case-insensitive partial. Values are
// never mutated after init.
var registry = map[string]supplement.Profile{
	"creatine": {
		Name:                 "creatine",
		Category:             supplement.CategoryPerformance,
		ExpectedWindowDays:   28,
		LoadingPhaseDays:     intPtr(7),
		PeakEffectDays:       intPtr(28),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectPositive,
		LiteratureConfidence: 0.9,
	},
	"magnesium": {
		Name:                 "magnesium",
		Category:             supplement.CategoryProtective,
		ExpectedWindowDays:   30,
		PeakEffectDays:       intPtr(21),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectProtective,
		LiteratureConfidence: 0.7,
	},
	"magnesium glycinate": {
		Name:                 "magnesium glycinate",
		Category:             supplement.CategoryProtective,
		ExpectedWindowDays:   30,
		PeakEffectDays:       intPtr(21),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectProtective,
		LiteratureConfidence: 0.75,
	},
	"omega-3": {
		Name:                 "omega-3",
		Category:             supplement.CategoryProtective,
		ExpectedWindowDays:   60,
		LoadingPhaseDays:     intPtr(21),
		PeakEffectDays:       intPtr(60),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectProtective,
		LiteratureConfidence: 0.8,
	},
	"fish oil": {
		Name:                 "fish oil",
		Category:             supplement.CategoryProtective,
		ExpectedWindowDays:   60,
		LoadingPhaseDays:     intPtr(21),
		PeakEffectDays:       intPtr(60),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectProtective,
		LiteratureConfidence: 0.8,
	},
	"vitamin d": {
		Name:                 "vitamin d",
		Category:             supplement.CategoryPerformance,
		ExpectedWindowDays:   56,
		LoadingPhaseDays:     intPtr(28),
		PeakEffectDays:       intPtr(56),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectPositive,
		LiteratureConfidence: 0.7,
	},
	"vitamin d3": {
		Name:                 "vitamin d3",
		Category:             supplement.CategoryPerformance,
		ExpectedWindowDays:   56,
		LoadingPhaseDays:     intPtr(28),
		PeakEffectDays:       intPtr(56),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectPositive,
		LiteratureConfidence: 0.75,
	},
	"ashwagandha": {
		Name:                 "ashwagandha",
		Category:             supplement.CategoryProtective,
		ExpectedWindowDays:   42,
		LoadingPhaseDays:     intPtr(14),
		PeakEffectDays:       intPtr(42),
		BuildsTolerance:      true,
		ToleranceDays:        intPtr(90),
		LiteratureEffect:     supplement.EffectProtective,
		LiteratureConfidence: 0.65,
	},
	"caffeine": {
		Name:                 "caffeine",
		Category:             supplement.CategoryPerformance,
		ExpectedWindowDays:   7,
		PeakEffectDays:       intPtr(1),
		BuildsTolerance:      true,
		ToleranceDays:        intPtr(14),
		LiteratureEffect:     supplement.EffectPositive,
		LiteratureConfidence: 0.9,
	},
	"l-theanine": {
		Name:                 "l-theanine",
		Category:             supplement.CategorySynergistic,
		ExpectedWindowDays:   7,
		PeakEffectDays:       intPtr(1),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectPositive,
		LiteratureConfidence: 0.6,
	},
	"melatonin": {
		Name:                 "melatonin",
		Category:             supplement.CategoryPerformance,
		ExpectedWindowDays:   14,
		PeakEffectDays:       intPtr(2),
		BuildsTolerance:      true,
		ToleranceDays:        intPtr(30),
		LiteratureEffect:     supplement.EffectPositive,
		LiteratureConfidence: 0.7,
	},
	"rhodiola": {
		Name:                 "rhodiola",
		Category:             supplement.CategoryPerformance,
		ExpectedWindowDays:   21,
		LoadingPhaseDays:     intPtr(7),
		PeakEffectDays:       intPtr(21),
		BuildsTolerance:      true,
		ToleranceDays:        intPtr(60),
		LiteratureEffect:     supplement.EffectMinimal,
		LiteratureConfidence: 0.5,
	},
	"zinc": {
		Name:                 "zinc",
		Category:             supplement.CategoryProtective,
		ExpectedWindowDays:   42,
		LoadingPhaseDays:     intPtr(14),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectMinimal,
		LiteratureConfidence: 0.5,
	},
	"iron": {
		Name:                 "iron",
		Category:             supplement.CategoryPerformance,
		ExpectedWindowDays:   56,
		LoadingPhaseDays:     intPtr(28),
		PeakEffectDays:       intPtr(56),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectPositive,
		LiteratureConfidence: 0.8,
	},
	"b12": {
		Name:                 "b12",
		Category:             supplement.CategoryPerformance,
		ExpectedWindowDays:   42,
		LoadingPhaseDays:     intPtr(14),
		PeakEffectDays:       intPtr(42),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectPositive,
		LiteratureConfidence: 0.7,
	},
	"l-tyrosine": {
		Name:                 "l-tyrosine",
		Category:             supplement.CategoryPerformance,
		ExpectedWindowDays:   7,
		PeakEffectDays:       intPtr(1),
		BuildsTolerance:      false,
		LiteratureEffect:     supplement.EffectMinimal,
		LiteratureConfidence: 0.5,
	},
}
