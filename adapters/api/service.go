// Package api exposes the signal engine to the surrounding application
// as a small JSON service. It is a read-only surface: one analysis per
// request, nothing cached, nothing written.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/domain/signal"
	"suppsignal/internal/errors"
	"suppsignal/internal/logging"
	"suppsignal/ports"
)

// Service wires the analyzer behind HTTP handlers
type Service struct {
	router   *chi.Mux
	analyzer ports.Analyzer
	log      *logging.Logger
}

// NewService creates the API service and mounts its routes
func NewService(analyzer ports.Analyzer, log *logging.Logger) *Service {
	if log == nil {
		log = logging.DefaultLogger
	}
	s := &Service{
		router:   chi.NewRouter(),
		analyzer: analyzer,
		log:      log.For("api"),
	}
	s.routes()
	return s
}

func (s *Service) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Post("/api/analyze", s.handleAnalyze)
	s.router.Get("/api/supplements/{supplementID}/report", s.handleReport)
}

// Router returns the mounted chi router
func (s *Service) Router() http.Handler {
	return s.router
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// analyzeRequest is the POST /api/analyze body
type analyzeRequest struct {
	UserID       string `json:"user_id"`
	SupplementID string `json:"supplement_id"`
	WindowDays   int    `json:"window_days"`
	Metric       string `json:"metric"`
}

func (s *Service) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("malformed request body"))
		return
	}

	userID, supplementID, window, metric, err := parseAnalyzeParams(req.UserID, req.SupplementID, req.WindowDays, req.Metric)
	if err != nil {
		writeError(w, err)
		return
	}

	snap, err := s.analyzer.Analyze(r.Context(), userID, supplementID, window, metric)
	if err != nil {
		s.log.Error("analyze failed: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshotToDTO(snap))
}

func parseAnalyzeParams(user, supp string, windowDays int, metric string) (core.UserID, core.SupplementID, signal.WindowLength, checkin.Metric, error) {
	userID, err := core.ParseUserID(user)
	if err != nil {
		return "", "", 0, "", errors.InvalidInput(err.Error())
	}
	supplementID, err := core.ParseSupplementID(supp)
	if err != nil {
		return "", "", 0, "", errors.InvalidInput(err.Error())
	}
	if windowDays == 0 {
		windowDays = int(signal.Window30)
	}
	window := signal.WindowLength(windowDays)
	if err := window.Validate(); err != nil {
		return "", "", 0, "", errors.InvalidInput(err.Error())
	}
	m := checkin.Metric(metric)
	if m == "" {
		m = checkin.MetricMood
	}
	return userID, supplementID, window, m, nil
}

// snapshotDTO is the wire form of a signal.Snapshot
type snapshotDTO struct {
	ID                string   `json:"id"`
	SupplementID      string   `json:"supplement_id"`
	UserID            string   `json:"user_id"`
	Metric            string   `json:"metric"`
	WindowDays        int      `json:"window_days"`
	N                 int      `json:"n"`
	EffectPct         int      `json:"effect_pct"`
	Confidence        int      `json:"confidence"`
	Status            string   `json:"status"`
	Pattern           *string  `json:"pattern,omitempty"`
	PreMean           *float64 `json:"pre_mean,omitempty"`
	PostMean          *float64 `json:"post_mean,omitempty"`
	VarianceReduction *float64 `json:"variance_reduction,omitempty"`
	Warnings          []string `json:"warnings,omitempty"`
	Explanation       string   `json:"explanation"`
}

func snapshotToDTO(snap *signal.Snapshot) snapshotDTO {
	dto := snapshotDTO{
		ID:                snap.ID.String(),
		SupplementID:      snap.SupplementID.String(),
		UserID:            snap.UserID.String(),
		Metric:            string(snap.Metric),
		WindowDays:        int(snap.Window),
		N:                 snap.N,
		EffectPct:         snap.EffectPct,
		Confidence:        snap.Confidence,
		Status:            string(snap.Status),
		PreMean:           snap.PreMean,
		PostMean:          snap.PostMean,
		VarianceReduction: snap.VarianceReduction,
		Warnings:          snap.Warnings,
		Explanation:       snap.Explanation,
	}
	if snap.Pattern != nil {
		p := string(*snap.Pattern)
		dto.Pattern = &p
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput:
		status = http.StatusBadRequest
	case errors.CodeNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}
