// Package signal defines the engine's output contract: the snapshot a
// dashboard or report layer consumes, plus the status and pattern
// vocabularies that make a verdict explainable.
package signal

import (
	"fmt"

	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
)

// Status is the terminal state of one analysis call. Insufficiency and
// uncertainty are statuses, not errors: every value here is an expected
// outcome of a normal call.
type Status string

const (
	// StatusInsufficient means fewer than the minimum usable treated
	// days exist; no statistics were computed
	StatusInsufficient Status = "insufficient"
	// StatusLoading means the supplement is still inside its expected
	// loading phase
	StatusLoading Status = "loading"
	// StatusConfounded means another intervention started too close to
	// this one for attribution to be trusted yet
	StatusConfounded Status = "confounded"
	// StatusTesting means data is accumulating but no verdict is ready
	StatusTesting Status = "testing"
	// StatusProtective means a protective-category supplement shows a
	// trustworthy variance reduction
	StatusProtective Status = "protective"
	// StatusConfirmed means a positive effect cleared the calibrated
	// effect and confidence bars
	StatusConfirmed Status = "confirmed"
	// StatusNoEffect means enough data exists to say nothing is there
	StatusNoEffect Status = "no_effect"
	// StatusHurting means a negative effect cleared the bars
	StatusHurting Status = "hurting"
	// StatusTolerance means an early gain decayed, consistent with
	// tolerance build-up
	StatusTolerance Status = "tolerance"
)

// Terminal reports whether the status is a recognized terminal state
func (s Status) Terminal() bool {
	switch s {
	case StatusInsufficient, StatusLoading, StatusConfounded, StatusTesting,
		StatusProtective, StatusConfirmed, StatusNoEffect, StatusHurting,
		StatusTolerance:
		return true
	}
	return false
}

// Pattern is the qualitative shape of the treated-day series, reported
// only when an effect verdict exists
type Pattern string

const (
	// PatternRapidPlateau is fast improvement then flat: deficiency
	// correction signature
	PatternRapidPlateau Pattern = "rapid_plateau"
	// PatternSlowLinear is a steady climb: gradual accumulation
	PatternSlowLinear Pattern = "slow_linear"
	// PatternImmediateSpike is a jump within the first two days: fast
	// pharmacological onset
	PatternImmediateSpike Pattern = "immediate_spike"
	// PatternCyclical is early gain then decline: tolerance signature
	PatternCyclical Pattern = "cyclical"
)

// PatternResult carries a classified pattern with its explanation
type PatternResult struct {
	Pattern     Pattern
	Confidence  float64
	Explanation string
}

// WindowLength is the trailing analysis window in days
type WindowLength int

const (
	Window30  WindowLength = 30
	Window90  WindowLength = 90
	Window365 WindowLength = 365
)

// Validate rejects window lengths outside the supported set
func (w WindowLength) Validate() error {
	switch w {
	case Window30, Window90, Window365:
		return nil
	}
	return fmt.Errorf("unsupported window length %d, want 30, 90 or 365", int(w))
}

// ConfoundSet names sibling supplements whose start dates fall close
// enough to the target's to break naive attribution
type ConfoundSet struct {
	Names    []string
	Resolved bool
}

// Empty reports whether no confounds were detected
func (c ConfoundSet) Empty() bool {
	return len(c.Names) == 0
}

// Snapshot is the engine's output for one (user, supplement, window,
// metric) analysis call. Produced fresh every call; the consuming layer
// decides whether to cache it.
type Snapshot struct {
	ID           core.SnapshotID
	SupplementID core.SupplementID
	UserID       core.UserID
	Metric       checkin.Metric
	Window       WindowLength

	N          int
	EffectPct  int // [-100,100], 0 until N >= 7
	Confidence int // [0,100], 0 until N >= 7
	Status     Status
	Pattern    *Pattern

	PreMean           *float64
	PostMean          *float64
	VarianceReduction *float64

	Warnings    []string
	Explanation string
	GeneratedAt core.Timestamp
}
