// Package delivery streams a resolved media asset to the client, validating
// the upstream response and retrying through an ordered chain of fallback
// candidates when the asset turns out not to be what it claimed.
package delivery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"mediagrab/internal/httputil"
	"mediagrab/internal/media"
)

// Resolver is the slice of the analysis service the pipeline needs for
// on-demand re-resolution.
type Resolver interface {
	Analyze(ctx context.Context, url string) (*media.AnalysisResult, error)
	ResolveDirect(ctx context.Context, url string, kind media.Kind) string
}

// Transformer is the external media transform engine.
type Transformer interface {
	Available() bool
	StreamBlur(ctx context.Context, inputURL string, w io.Writer) error
}

// Remuxer is the last-resort generic extraction-and-remux subprocess.
type Remuxer interface {
	Stream(ctx context.Context, url, formatID string, w io.Writer) error
}

// Options configures a Pipeline.
type Options struct {
	Resolver      Resolver
	Transformer   Transformer
	Remuxer       Remuxer
	HTTPClient    *http.Client
	MinVideoBytes int64
	Logger        *zerolog.Logger
}

// Pipeline owns no per-request state; one instance serves all requests.
type Pipeline struct {
	resolver      Resolver
	transformer   Transformer
	remuxer       Remuxer
	client        *http.Client
	minVideoBytes int64
	logger        zerolog.Logger
}

// NewPipeline builds a Pipeline from options, applying defaults.
func NewPipeline(opts Options) *Pipeline {
	client := opts.HTTPClient
	if client == nil {
		client = httputil.NewClient()
	}
	minBytes := opts.MinVideoBytes
	if minBytes == 0 {
		minBytes = 100 * 1024
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Pipeline{
		resolver:      opts.Resolver,
		transformer:   opts.Transformer,
		remuxer:       opts.Remuxer,
		client:        client,
		minVideoBytes: minBytes,
		logger:        logger,
	}
}

// Request describes one delivery. It carries no server-side state across
// requests.
type Request struct {
	URL             string
	Title           string
	Kind            media.Kind
	RemoveWatermark bool
	SourceURL       string
	FormatID        string
}

// candidate lazily produces zero or one URL to attempt. Modeling the
// fallback chain as a flat ordered list keeps the nested re-resolution logic
// out of the attempt loop.
type candidate struct {
	name string
	url  func(ctx context.Context) string
}

// Deliver runs the fallback chain for req, streaming the first candidate
// that validates. A nil return means the full body was written. A returned
// error may arrive after bytes were already flushed; callers must check
// before writing an error body.
func (p *Pipeline) Deliver(ctx context.Context, w http.ResponseWriter, req Request) error {
	target := media.NormalizeSourceURL(req.URL)
	source := ""
	if req.SourceURL != "" {
		source = media.NormalizeSourceURL(req.SourceURL)
	}
	logger := p.logger.With().Str("url", target).Str("kind", string(req.Kind)).Logger()

	var lastErr error

	reanalyze := func(ctx context.Context) *media.AnalysisResult {
		res, err := p.resolver.Analyze(ctx, source)
		if err != nil {
			logger.Warn().Err(err).Str("source", source).Msg("re-analysis failed")
			return nil
		}
		return res
	}

	// Candidates 2 and 3 share one re-analysis pass; 5 and 6 share a second,
	// fresh one.
	var firstPass, secondPass *media.AnalysisResult

	candidates := []candidate{
		{name: "target", url: func(context.Context) string { return target }},
	}
	if source != "" {
		candidates = append(candidates,
			candidate{name: "source_reanalysis", url: func(ctx context.Context) string {
				if !Retryable(lastErr) {
					return ""
				}
				firstPass = reanalyze(ctx)
				if firstPass == nil {
					return ""
				}
				return firstPass.OriginalURL
			}},
			candidate{name: "source_reanalysis_probe", url: func(ctx context.Context) string {
				if firstPass == nil {
					return ""
				}
				return p.resolver.ResolveDirect(ctx, firstPass.OriginalURL, req.Kind)
			}},
		)
	}
	candidates = append(candidates, candidate{name: "target_probe", url: func(ctx context.Context) string {
		return p.resolver.ResolveDirect(ctx, target, req.Kind)
	}})
	if source != "" {
		candidates = append(candidates,
			candidate{name: "source_reanalysis_2", url: func(ctx context.Context) string {
				secondPass = reanalyze(ctx)
				if secondPass == nil {
					return ""
				}
				return secondPass.OriginalURL
			}},
			candidate{name: "source_reanalysis_2_probe", url: func(ctx context.Context) string {
				if secondPass == nil {
					return ""
				}
				return p.resolver.ResolveDirect(ctx, secondPass.OriginalURL, req.Kind)
			}},
		)
	}

	for _, cand := range candidates {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u := cand.url(ctx)
		if u == "" {
			continue
		}
		done, err := p.attempt(ctx, w, u, req)
		if done {
			logger.Info().Str("candidate", cand.name).Str("resolved", u).Msg("delivery complete")
			return nil
		}
		if err != nil {
			if !Retryable(err) {
				return err
			}
			logger.Warn().Err(err).Str("candidate", cand.name).Str("resolved", u).Msg("attempt failed, advancing")
			lastErr = err
		}
	}

	if req.Kind == media.KindVideo && p.remuxer != nil {
		// Remuxing spawns a subprocess per request; refuse fast when the
		// transform engine is missing instead of failing mid-spawn.
		if p.transformer == nil || !p.transformer.Available() {
			return ErrTransformUnavailable
		}
		logger.Info().Msg("falling back to extraction-and-remux subprocess")
		w.Header().Set("Content-Type", "video/mp4")
		return p.remuxer.Stream(ctx, target, req.FormatID, w)
	}

	if lastErr != nil {
		return lastErr
	}
	return ErrExhausted
}

// attempt validates and streams one candidate URL. done=true means the full
// body was written. A false/nil return is a silent rejection made before any
// network call.
func (p *Pipeline) attempt(ctx context.Context, w http.ResponseWriter, candidateURL string, req Request) (done bool, err error) {
	if !media.IsDirectFileURL(candidateURL) {
		return false, nil
	}
	switch req.Kind {
	case media.KindImage:
		if !media.IsLikelyImageURL(candidateURL) {
			return false, nil
		}
	default:
		if !media.IsLikelyVideoURL(candidateURL) || media.IsFaviconURL(candidateURL) {
			return false, nil
		}
	}

	w.Header().Set("X-Resolved-Url", candidateURL)

	if req.RemoveWatermark && req.Kind == media.KindVideo && p.transformer != nil {
		w.Header().Set("Content-Type", "video/mp4")
		cw := &countingWriter{w: w}
		blurErr := p.transformer.StreamBlur(ctx, candidateURL, cw)
		if blurErr == nil {
			return true, nil
		}
		if cw.n > 0 {
			// Bytes already reached the client; aborting beats appending a
			// second, unrelated stream after a partial one.
			return false, fmt.Errorf("watermark transform aborted mid-stream: %w", blurErr)
		}
		p.logger.Warn().Err(blurErr).Msg("watermark transform failed, falling back to passthrough")
	}

	if err := p.fetchAndPipe(ctx, w, candidateURL, req.Kind); err != nil {
		return false, err
	}
	return true, nil
}

// fetchAndPipe issues the upstream fetch, validates the response and copies
// the body through to the client incrementally.
func (p *Pipeline) fetchAndPipe(ctx context.Context, w http.ResponseWriter, target string, kind media.Kind) error {
	upstreamReq, err := httputil.NewMediaRequest(ctx, target)
	if err != nil {
		return &StreamError{Code: CodeFetchFailed}
	}

	resp, err := p.client.Do(upstreamReq)
	if err != nil {
		return fmt.Errorf("upstream fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StreamError{Code: CodeFetchFailed, Status: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		return &StreamError{Code: CodeFetchHTML}
	}
	if kind == media.KindVideo && media.IsImageContentType(contentType) {
		return &StreamError{Code: CodeNotVideo}
	}
	if contentType == "image/vnd.microsoft.icon" {
		return &StreamError{Code: CodeFavicon}
	}

	contentLength := resp.Header.Get("Content-Length")
	if contentLength != "" && kind == media.KindVideo {
		if n, err := strconv.ParseInt(contentLength, 10, 64); err == nil && n > 0 && n < p.minVideoBytes {
			return &StreamError{Code: CodeTooSmall}
		}
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	if contentLength != "" {
		w.Header().Set("Content-Length", contentLength)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("stream copy: %w", err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
