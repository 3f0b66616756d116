package api

import (
	"errors"
	"net/http"
	"strconv"

	"retail-pricing/engine"
)

// handleRunPredictions triggers a batch run. Pass ?retrain=true to
// discard the persisted model artifact and fit a fresh one.
func (s *Server) handleRunPredictions(w http.ResponseWriter, r *http.Request) {
	retrain := r.URL.Query().Get("retrain") == "true"

	report, err := s.runner.RunOnce(retrain)
	if err != nil {
		if errors.Is(err, engine.ErrBatchInProgress) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		respondWithDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	if summary, ok := s.dashCache.GetSummary(r.Context()); ok {
		writeJSON(w, http.StatusOK, summary)
		return
	}

	summary, err := s.charts.Summary()
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	s.dashCache.SetSummary(r.Context(), summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	kind := r.PathValue("type")

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondWithError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	// Only the full series is cached; windowed requests go straight
	// through so the key stays one-per-product-and-kind.
	if days == 0 {
		if points, ok := s.dashCache.GetSeries(r.Context(), id, kind); ok {
			writeJSON(w, http.StatusOK, points)
			return
		}
	}

	points, err := s.charts.Series(id, kind, days)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	if days == 0 {
		s.dashCache.SetSeries(r.Context(), id, kind, points)
	}
	writeJSON(w, http.StatusOK, points)
}
