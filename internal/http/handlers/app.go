package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"mediagrab/internal/delivery"
	"mediagrab/internal/infra"
	"mediagrab/internal/media"
)

// Analyzer resolves a page URL into an analysis result.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*media.AnalysisResult, error)
}

// Deliverer streams a resolved asset to the client.
type Deliverer interface {
	Deliver(ctx context.Context, w http.ResponseWriter, req delivery.Request) error
}

// App is the handler container wiring the resolution and delivery services
// to the HTTP surface.
type App struct {
	Log      infra.Logger
	Analyzer Analyzer
	Pipeline Deliverer
}

// NewApp builds the handler container.
func NewApp(log infra.Logger, analyzer Analyzer, pipeline Deliverer) *App {
	return &App{Log: log, Analyzer: analyzer, Pipeline: pipeline}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message, details string) {
	a.json(w, code, errorResponse{Error: message, Details: details, Hint: hintFor(details)})
}
