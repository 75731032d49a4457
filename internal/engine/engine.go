// Package engine implements the supplement signal pipeline: window
// construction from raw logs, confound detection, baseline calibration,
// pattern classification and the final compose step that emits a
// signal.Snapshot.
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"suppsignal/domain/baseline"
	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/domain/signal"
	"suppsignal/domain/supplement"
	"suppsignal/internal/errors"
	"suppsignal/internal/logging"
	"suppsignal/ports"
)

// Deps wires the engine's collaborators
type Deps struct {
	Checkins    ports.CheckinStore
	Supplements ports.SupplementStore
	Baselines   ports.BaselineStore
	Profiles    ports.ProfileStore
	RNG         ports.RNGPort
	Logger      *logging.Logger

	// BootstrapIterations overrides the resample count; zero means the
	// default of 800
	BootstrapIterations int
	// BaseSeed feeds the per-analysis RNG stream derivation. Tests pin
	// it for reproducible confidence values.
	BaseSeed int64
}

// Engine runs one analysis per call: four independent read-only lookups
// dispatched concurrently, then a pure compose step. No cross-request
// state beyond the calibrator's per-user baseline record.
type Engine struct {
	windows    *WindowBuilder
	confounds  *ConfoundDetector
	calibrator *BaselineCalibrator
	supps      ports.SupplementStore
	profiles   ports.ProfileStore
	rng        ports.RNGPort
	iterations int
	baseSeed   int64
	log        *logging.Logger
}

// New builds the engine from its dependencies
func New(deps Deps) *Engine {
	log := deps.Logger
	if log == nil {
		log = logging.DefaultLogger
	}
	return &Engine{
		windows:    NewWindowBuilder(deps.Checkins, deps.Supplements, log),
		confounds:  NewConfoundDetector(deps.Supplements, log),
		calibrator: NewBaselineCalibrator(deps.Checkins, deps.Baselines, log),
		supps:      deps.Supplements,
		profiles:   deps.Profiles,
		rng:        deps.RNG,
		iterations: deps.BootstrapIterations,
		baseSeed:   deps.BaseSeed,
		log:        log.For("engine"),
	}
}

// Analyze produces a fresh snapshot for one (user, supplement, window,
// metric) request. Window construction failures are hard errors;
// confound detection and calibration degrade to advisory defaults with a
// warning instead of sinking the call.
func (e *Engine) Analyze(ctx context.Context, userID core.UserID, supplementID core.SupplementID,
	window signal.WindowLength, metric checkin.Metric) (*signal.Snapshot, error) {

	if err := window.Validate(); err != nil {
		return nil, errors.InvalidInput(err.Error())
	}

	supp, err := e.supps.GetSupplement(ctx, supplementID)
	if err != nil {
		return nil, errors.LookupFailed("supplement", err)
	}
	if supp == nil {
		return nil, errors.NotFound("supplement")
	}

	// Each goroutine writes only its own variables; no shared state
	// until Wait returns
	var (
		rows      []checkin.DayRow
		userBase  *baseline.UserBaseline
		confounds signal.ConfoundSet
		profile   supplement.Profile

		calibrationStale    bool
		calibrationDegraded bool
		confoundsDegraded   bool
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		rows, err = e.windows.Build(gctx, userID, supplementID, window, metric)
		return err
	})

	g.Go(func() error {
		profile = e.profiles.Resolve(supp.Name)
		return nil
	})

	g.Go(func() error {
		b, err := e.calibrator.Calibrate(gctx, userID)
		if err == nil {
			userBase = b
			return nil
		}
		// Calibration is advisory: prefer the last stored baseline, fall
		// back to base thresholds when none exists
		e.log.Warn("baseline calibration degraded for user=%s: %v", userID, err)
		if stored, loadErr := e.calibrator.Load(gctx, userID); loadErr == nil && stored != nil {
			userBase = stored
			calibrationStale = true
			return nil
		}
		calibrationDegraded = true
		return nil
	})

	g.Go(func() error {
		set, err := e.confounds.Detect(gctx, userID, supplementID, core.Today())
		if err != nil {
			// Confound detection is advisory: treat failure as no confound
			e.log.Warn("confound detection degraded for supplement=%s: %v", supplementID, err)
			confoundsDegraded = true
			return nil
		}
		confounds = set
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stream, err := e.rng.Stream(ctx, userID.String(), supplementID.String(), "bootstrap", e.baseSeed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive bootstrap RNG stream")
	}

	snap := Compose(ComposeInput{
		UserID:       userID,
		SupplementID: supplementID,
		Metric:       metric,
		Window:       window,
		Rows:         rows,
		Profile:      profile,
		Baseline:     userBase,
		Confounds:    confounds,
		Iterations:   e.iterations,
		RNG:          stream,
	})
	if !snap.Status.Terminal() {
		return nil, errors.New(errors.CodeInternalError,
			fmt.Sprintf("analysis produced unknown status %q", snap.Status))
	}
	if calibrationStale {
		snap.Warnings = append(snap.Warnings, "baseline calibration unavailable, using last stored baseline")
	}
	if calibrationDegraded {
		snap.Warnings = append(snap.Warnings, "baseline calibration unavailable, using default thresholds")
	}
	if confoundsDegraded {
		snap.Warnings = append(snap.Warnings, "confound detection unavailable")
	}

	e.log.Info("analyzed supplement=%s user=%s status=%s effect=%d%% confidence=%d n=%d",
		supp.Name, userID, snap.Status, snap.EffectPct, snap.Confidence, snap.N)
	return snap, nil
}
