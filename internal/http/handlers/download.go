package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mediagrab/internal/delivery"
	"mediagrab/internal/httputil"
	"mediagrab/internal/media"
)

type downloadRequest struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	RemoveWatermark bool   `json:"removeWatermark"`
	SourceURL       string `json:"sourceUrl"`
	FormatID        string `json:"formatId"`
}

// Download handles POST /download: it resolves the request into a working
// candidate and streams the asset back as an attachment.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req downloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		a.json(w, http.StatusBadRequest, errorResponse{Error: "URL is required"})
		return
	}

	kind := media.KindFromString(req.Type)
	ext := "mp4"
	if kind == media.KindImage {
		ext = "jpg"
	}
	name := httputil.AttachmentName(req.Title, ext)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	tw := &trackingWriter{ResponseWriter: w}
	err := a.Pipeline.Deliver(r.Context(), tw, delivery.Request{
		URL:             req.URL,
		Title:           req.Title,
		Kind:            kind,
		RemoveWatermark: req.RemoveWatermark,
		SourceURL:       req.SourceURL,
		FormatID:        req.FormatID,
	})
	if err == nil {
		return
	}

	a.Log.Error().Err(err).Str("url", req.URL).Msg("download failed")
	if tw.wrote {
		// Bytes already reached the client; the only honest option left is
		// to cut the connection rather than append an error body.
		panic(http.ErrAbortHandler)
	}
	if errors.Is(err, delivery.ErrTransformUnavailable) {
		a.json(w, http.StatusInternalServerError, errorResponse{Error: "ffmpeg not found", Hint: ffmpegHint})
		return
	}
	a.error(w, http.StatusBadGateway, "Download failed", err.Error())
}

// trackingWriter records whether any body bytes were written so error
// handling can tell "failed before streaming" from "aborted mid-stream".
type trackingWriter struct {
	http.ResponseWriter
	wrote bool
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(p)
}

func (t *trackingWriter) Flush() {
	if f, ok := t.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
