package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"suppsignal/domain/signal"
)

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// handleReport renders one snapshot as a standalone HTML fragment for
// the dashboard layer. The report is composed as markdown and converted,
// so the same text can also be dropped into email or chat surfaces.
func (s *Service) handleReport(w http.ResponseWriter, r *http.Request) {
	windowDays, _ := strconv.Atoi(r.URL.Query().Get("window_days"))
	userID, supplementID, window, metric, err := parseAnalyzeParams(
		r.URL.Query().Get("user_id"),
		chi.URLParam(r, "supplementID"),
		windowDays,
		r.URL.Query().Get("metric"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	snap, err := s.analyzer.Analyze(r.Context(), userID, supplementID, window, metric)
	if err != nil {
		s.log.Error("report analyze failed: %v", err)
		writeError(w, err)
		return
	}

	md := renderMarkdown(snap)
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	out := markdown.ToHTML([]byte(md), p, renderer)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// renderMarkdown composes the human-readable verdict report
func renderMarkdown(snap *signal.Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## %s: %s\n\n", titleCase(string(snap.Status)), snap.Metric)
	fmt.Fprintf(&b, "%s\n\n", snap.Explanation)

	fmt.Fprintf(&b, "| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Treated days | %d |\n", snap.N)
	fmt.Fprintf(&b, "| Window | %d days |\n", int(snap.Window))
	if statisticsApply(snap.Status) {
		fmt.Fprintf(&b, "| Effect | %+d%% |\n", snap.EffectPct)
		fmt.Fprintf(&b, "| Sign-stability | %d%% |\n", snap.Confidence)
	}
	if snap.VarianceReduction != nil {
		fmt.Fprintf(&b, "| Variance reduction | %.0f%% |\n", *snap.VarianceReduction)
	}
	if snap.Pattern != nil {
		fmt.Fprintf(&b, "| Response shape | %s |\n", strings.ReplaceAll(string(*snap.Pattern), "_", " "))
	}

	if len(snap.Warnings) > 0 {
		b.WriteString("\n")
		for _, warning := range snap.Warnings {
			fmt.Fprintf(&b, "- ⚠ %s\n", warning)
		}
	}
	return b.String()
}

// statisticsApply reports whether effect and confidence numbers are
// meaningful for the status (they are zeroed for short-circuit states)
func statisticsApply(status signal.Status) bool {
	switch status {
	case signal.StatusInsufficient, signal.StatusConfounded, signal.StatusLoading:
		return false
	}
	return true
}
