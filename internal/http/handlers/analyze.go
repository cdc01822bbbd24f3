package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// analyzeTimeout bounds one analysis call end to end, including the
// page-render fallback.
const analyzeTimeout = 60 * time.Second

type analyzeRequest struct {
	URL string `json:"url"`
}

// Analyze handles POST /analyze.
func (a *App) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		a.json(w, http.StatusBadRequest, errorResponse{Error: "URL is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analyzeTimeout)
	defer cancel()

	result, err := a.Analyzer.Analyze(ctx, req.URL)
	if err != nil {
		a.Log.Error().Err(err).Str("url", req.URL).Msg("analysis failed")
		a.error(w, http.StatusInternalServerError, "Failed to analyze URL", err.Error())
		return
	}

	a.json(w, http.StatusOK, result)
}
