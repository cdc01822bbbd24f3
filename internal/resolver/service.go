// Package resolver turns an arbitrary media page URL into a verified,
// directly fetchable asset URL, coordinating the metadata extractor with the
// page-render fallback.
package resolver

import (
	"context"

	"github.com/rs/zerolog"

	"mediagrab/internal/media"
)

// MetadataExtractor is the primary external extractor interface.
type MetadataExtractor interface {
	Inspect(ctx context.Context, url string) (*media.Metadata, error)
	ResolveURL(ctx context.Context, url string) (string, error)
}

// PageRenderer is the fallback extractor: it renders the page in a real
// browser engine and fabricates a metadata record from what it observes.
type PageRenderer interface {
	Extract(ctx context.Context, url string) (*media.Metadata, error)
}

// Service orchestrates extraction, direct-URL verification and format
// cataloging for one analysis call.
type Service struct {
	extractor MetadataExtractor
	renderer  PageRenderer
	logger    zerolog.Logger
}

// New builds a Service. renderer may be nil, which disables the page-render
// fallback entirely.
func New(extractor MetadataExtractor, renderer PageRenderer, logger zerolog.Logger) *Service {
	return &Service{extractor: extractor, renderer: renderer, logger: logger}
}

// Analyze resolves rawURL into a full AnalysisResult. The input is
// normalized first, so shorthand forms never reach the extractors.
func (s *Service) Analyze(ctx context.Context, rawURL string) (*media.AnalysisResult, error) {
	target := media.NormalizeSourceURL(rawURL)
	logger := s.logger.With().Str("url", target).Logger()

	meta, err := s.extractor.Inspect(ctx, target)
	if err != nil {
		if s.renderer == nil || !media.IsSoraURL(target) {
			return nil, err
		}
		logger.Warn().Err(err).Msg("extractor failed, trying page-render fallback")
		meta, err = s.renderer.Extract(ctx, target)
		if err != nil {
			return nil, err
		}
	}

	kind := media.DetectKind(meta)
	direct := s.resolveDirect(ctx, meta, kind, target)

	formats := media.BuildFormats(meta.Formats)

	platform := meta.ExtractorKey
	if platform == "" {
		platform = "Unknown"
	}

	original := direct
	if original == "" {
		original = meta.WebpageURL
	}
	if original == "" {
		original = target
	}

	result := &media.AnalysisResult{
		Platform:        platform,
		Type:            kind,
		Title:           meta.Title,
		Thumbnail:       meta.Thumbnail,
		Duration:        meta.Duration,
		OriginalURL:     original,
		DirectURL:       direct,
		Formats:         formats,
		DefaultFormatID: media.DefaultFormatID(formats),
	}

	logger.Info().
		Str("platform", result.Platform).
		Str("kind", string(result.Type)).
		Bool("direct", result.DirectURL != "").
		Int("formats", len(result.Formats)).
		Msg("analysis complete")
	return result, nil
}

// resolveDirect applies the ordered direct-URL algorithm: trust the
// extractor-reported URL when it already classifies as a direct file of the
// expected kind, otherwise fall back to the resolution probe. Empty means the
// delivery pipeline must resolve on demand.
func (s *Service) resolveDirect(ctx context.Context, meta *media.Metadata, kind media.Kind, fallback string) string {
	if verifiedDirect(meta.WebpageURL, kind) {
		return meta.WebpageURL
	}

	probeTarget := meta.WebpageURL
	if probeTarget == "" {
		probeTarget = fallback
	}
	return s.ResolveDirect(ctx, probeTarget, kind)
}

// ResolveDirect runs the resolution probe against the URL and returns the
// result only when it classifies as a direct asset of the expected kind.
func (s *Service) ResolveDirect(ctx context.Context, target string, kind media.Kind) string {
	resolved, err := s.extractor.ResolveURL(ctx, target)
	if err != nil || resolved == "" {
		return ""
	}
	if verifiedDirect(resolved, kind) {
		return resolved
	}
	s.logger.Debug().Str("url", target).Str("resolved", resolved).Msg("probe result failed classification")
	return ""
}

func verifiedDirect(candidate string, kind media.Kind) bool {
	if candidate == "" || !media.IsDirectFileURL(candidate) || media.IsFaviconURL(candidate) {
		return false
	}
	if kind == media.KindImage {
		return media.IsLikelyImageURL(candidate)
	}
	return media.IsLikelyVideoURL(candidate)
}
