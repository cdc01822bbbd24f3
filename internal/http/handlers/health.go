package handlers

import "net/http"

// Root is a plain liveness line for load balancers and curl checks.
func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Media downloader server is running."))
}

// Health handles GET /v1/healthz.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
