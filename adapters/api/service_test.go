package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suppsignal/domain/checkin"
	"suppsignal/domain/core"
	"suppsignal/domain/signal"
	"suppsignal/internal/errors"
)

// fakeAnalyzer returns a canned snapshot or error
type fakeAnalyzer struct {
	snap *signal.Snapshot
	err  error

	gotUserID       core.UserID
	gotSupplementID core.SupplementID
	gotWindow       signal.WindowLength
	gotMetric       checkin.Metric
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, userID core.UserID, supplementID core.SupplementID,
	window signal.WindowLength, metric checkin.Metric) (*signal.Snapshot, error) {
	f.gotUserID = userID
	f.gotSupplementID = supplementID
	f.gotWindow = window
	f.gotMetric = metric
	return f.snap, f.err
}

func confirmedSnapshot() *signal.Snapshot {
	pattern := signal.PatternSlowLinear
	return &signal.Snapshot{
		ID:           "snap-1",
		SupplementID: "supp-1",
		UserID:       "user-1",
		Metric:       checkin.MetricSleep,
		Window:       signal.Window30,
		N:            21,
		EffectPct:    12,
		Confidence:   85,
		Status:       signal.StatusConfirmed,
		Pattern:      &pattern,
		Explanation:  "creatine is working",
	}
}

func postAnalyze(t *testing.T, svc *Service, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)
	return rec
}

func TestHandleAnalyze(t *testing.T) {
	fake := &fakeAnalyzer{snap: confirmedSnapshot()}
	svc := NewService(fake, nil)

	rec := postAnalyze(t, svc, map[string]interface{}{
		"user_id":       "user-1",
		"supplement_id": "supp-1",
		"window_days":   30,
		"metric":        "sleep_quality",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var dto snapshotDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, "snap-1", dto.ID)
	assert.Equal(t, "confirmed", dto.Status)
	assert.Equal(t, 12, dto.EffectPct)
	assert.Equal(t, 85, dto.Confidence)
	require.NotNil(t, dto.Pattern)
	assert.Equal(t, "slow_linear", *dto.Pattern)

	assert.Equal(t, core.UserID("user-1"), fake.gotUserID)
	assert.Equal(t, signal.Window30, fake.gotWindow)
	assert.Equal(t, checkin.MetricSleep, fake.gotMetric)
}

func TestHandleAnalyze_Defaults(t *testing.T) {
	fake := &fakeAnalyzer{snap: confirmedSnapshot()}
	svc := NewService(fake, nil)

	rec := postAnalyze(t, svc, map[string]interface{}{
		"user_id":       "user-1",
		"supplement_id": "supp-1",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, signal.Window30, fake.gotWindow)
	assert.Equal(t, checkin.MetricMood, fake.gotMetric)
}

func TestHandleAnalyze_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "missing user",
			body: map[string]interface{}{"supplement_id": "supp-1"},
		},
		{
			name: "missing supplement",
			body: map[string]interface{}{"user_id": "user-1"},
		},
		{
			name: "unsupported window",
			body: map[string]interface{}{"user_id": "user-1", "supplement_id": "supp-1", "window_days": 45},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&fakeAnalyzer{snap: confirmedSnapshot()}, nil)
			rec := postAnalyze(t, svc, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleAnalyze_NotFound(t *testing.T) {
	fake := &fakeAnalyzer{err: errors.NotFound("supplement")}
	svc := NewService(fake, nil)

	rec := postAnalyze(t, svc, map[string]interface{}{
		"user_id":       "user-1",
		"supplement_id": "supp-missing",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeNotFound, body["code"])
}

func TestHandleHealth(t *testing.T) {
	svc := NewService(&fakeAnalyzer{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReport(t *testing.T) {
	fake := &fakeAnalyzer{snap: confirmedSnapshot()}
	svc := NewService(fake, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/supplements/supp-1/report?user_id=user-1&window_days=30&metric=sleep_quality", nil)
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	html := rec.Body.String()
	assert.Contains(t, html, "Confirmed")
	assert.Contains(t, html, "creatine is working")
	assert.Contains(t, html, "slow linear")
}

func TestRenderMarkdown_HidesStatsForShortCircuitStates(t *testing.T) {
	snap := confirmedSnapshot()
	snap.Status = signal.StatusInsufficient
	snap.EffectPct = 0
	snap.Confidence = 0

	md := renderMarkdown(snap)
	assert.False(t, strings.Contains(md, "Effect"),
		"insufficient snapshots must not show effect numbers")
	assert.True(t, strings.Contains(md, "Treated days"))
}
