package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mediagrab/internal/delivery"
	"mediagrab/internal/infra"
	"mediagrab/internal/media"
)

type fakeAnalyzer struct {
	result *media.AnalysisResult
	err    error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, url string) (*media.AnalysisResult, error) {
	return f.result, f.err
}

type fakeDeliverer struct {
	body string
	err  error
	// writeThenFail streams body before returning err, simulating a
	// mid-stream abort.
	writeThenFail bool
	got           delivery.Request
}

func (f *fakeDeliverer) Deliver(ctx context.Context, w http.ResponseWriter, req delivery.Request) error {
	f.got = req
	if f.body != "" && (f.err == nil || f.writeThenFail) {
		_, _ = w.Write([]byte(f.body))
	}
	return f.err
}

func newTestApp(an Analyzer, d Deliverer) *App {
	return NewApp(infra.NewLogger("test"), an, d)
}

func TestAnalyzeOK(t *testing.T) {
	an := &fakeAnalyzer{result: &media.AnalysisResult{
		Platform:    "Youtube",
		Type:        "video",
		Title:       "clip",
		OriginalURL: "https://www.youtube.com/watch?v=abc",
	}}
	app := newTestApp(an, &fakeDeliverer{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"url":"https://youtu.be/abc"}`))
	rr := httptest.NewRecorder()
	app.Analyze(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var got media.AnalysisResult
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Platform != "Youtube" || got.Title != "clip" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestAnalyzeMissingURL(t *testing.T) {
	app := newTestApp(&fakeAnalyzer{}, &fakeDeliverer{})

	for _, body := range []string{`{}`, `{"url":""}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(body))
		rr := httptest.NewRecorder()
		app.Analyze(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want 400", body, rr.Code)
		}
	}
}

func TestAnalyzeFailure(t *testing.T) {
	an := &fakeAnalyzer{err: errors.New("no media found on page")}
	app := newTestApp(an, &fakeDeliverer{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"url":"https://example.com/x"}`))
	rr := httptest.NewRecorder()
	app.Analyze(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "Failed to analyze URL" {
		t.Fatalf("error = %q", resp.Error)
	}
	if resp.Hint == "" {
		t.Fatal("expected a hint for no-media failures")
	}
}

func TestDownloadStreams(t *testing.T) {
	d := &fakeDeliverer{body: "VIDEOBYTES"}
	app := newTestApp(&fakeAnalyzer{}, d)

	body := `{"url":"https://cdn.example.com/v.mp4","title":"My Clip","type":"video","removeWatermark":true,"sourceUrl":"https://sora.chatgpt.com/p/1","formatId":"137"}`
	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(body))
	rr := httptest.NewRecorder()
	app.Download(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Body.String(); got != "VIDEOBYTES" {
		t.Fatalf("body = %q", got)
	}
	cd := rr.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="My Clip.mp4"`) {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if d.got.Kind != media.KindVideo || !d.got.RemoveWatermark || d.got.FormatID != "137" {
		t.Fatalf("request passed through wrong: %+v", d.got)
	}
	if d.got.SourceURL != "https://sora.chatgpt.com/p/1" {
		t.Fatalf("source url = %q", d.got.SourceURL)
	}
}

func TestDownloadImageExtension(t *testing.T) {
	d := &fakeDeliverer{body: "IMG"}
	app := newTestApp(&fakeAnalyzer{}, d)

	body := `{"url":"https://cdn.example.com/p.jpg","title":"Shot","type":"image"}`
	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(body))
	rr := httptest.NewRecorder()
	app.Download(rr, req)

	cd := rr.Header().Get("Content-Disposition")
	if !strings.Contains(cd, `filename="Shot.jpg"`) {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if d.got.Kind != media.KindImage {
		t.Fatalf("kind = %v, want image", d.got.Kind)
	}
}

func TestDownloadMissingURL(t *testing.T) {
	app := newTestApp(&fakeAnalyzer{}, &fakeDeliverer{})

	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(`{"title":"x"}`))
	rr := httptest.NewRecorder()
	app.Download(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestDownloadFailureBeforeBytes(t *testing.T) {
	d := &fakeDeliverer{err: &delivery.StreamError{Code: delivery.CodeFetchHTML, Status: 200}}
	app := newTestApp(&fakeAnalyzer{}, d)

	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(`{"url":"https://cdn.example.com/v.mp4"}`))
	rr := httptest.NewRecorder()
	app.Download(rr, req)

	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rr.Code)
	}
	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "Download failed" {
		t.Fatalf("error = %q", resp.Error)
	}
	if !strings.Contains(resp.Details, "fetch_html") {
		t.Fatalf("details = %q", resp.Details)
	}
	if resp.Hint == "" {
		t.Fatal("expected an fetch_html hint")
	}
}

func TestDownloadTransformUnavailable(t *testing.T) {
	d := &fakeDeliverer{err: delivery.ErrTransformUnavailable}
	app := newTestApp(&fakeAnalyzer{}, d)

	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(`{"url":"https://cdn.example.com/v.m3u8"}`))
	rr := httptest.NewRecorder()
	app.Download(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	var resp struct {
		Error string `json:"error"`
		Hint  string `json:"hint"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error != "ffmpeg not found" || resp.Hint == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDownloadMidStreamAbort(t *testing.T) {
	d := &fakeDeliverer{body: "PARTIAL", err: errors.New("upstream reset"), writeThenFail: true}
	app := newTestApp(&fakeAnalyzer{}, d)

	req := httptest.NewRequest(http.MethodPost, "/download", strings.NewReader(`{"url":"https://cdn.example.com/v.mp4"}`))
	rr := httptest.NewRecorder()

	defer func() {
		if recover() != http.ErrAbortHandler {
			t.Fatal("expected handler abort after partial write")
		}
		if got := rr.Body.String(); got != "PARTIAL" {
			t.Fatalf("body = %q, want the partial bytes only", got)
		}
	}()
	app.Download(rr, req)
	t.Fatal("expected panic(http.ErrAbortHandler)")
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(&fakeAnalyzer{}, &fakeDeliverer{})

	rr := httptest.NewRecorder()
	app.Root(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "running") {
		t.Fatalf("root: %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	app.Health(rr, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rr.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("status = %q", resp["status"])
	}
}
