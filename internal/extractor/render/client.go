// Package render is the client side of the external page-render extractor: a
// browser-engine service that loads a page, observes its network traffic and
// returns the rendered document plus a screenshot. It is only consulted when
// the primary metadata extractor fails for a host known to need JS rendering.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"mediagrab/internal/media"
)

// ErrNoMediaFound means the page rendered fine but none of the mining
// strategies produced a URL. Callers must treat it as "this page has no
// media", not as a transport failure.
var ErrNoMediaFound = errors.New("render: no media found on page")

// ExtractorKey marks analysis results that came through the render fallback.
const ExtractorKey = "Sora (Renderer)"

// Snapshot is the renderer's view of a fully loaded page.
type Snapshot struct {
	Title         string             `json:"title"`
	HTML          string             `json:"html"`
	ScreenshotB64 string             `json:"screenshot"`
	Responses     []ObservedResponse `json:"responses"`
}

// ObservedResponse is one network response the renderer saw while loading.
type ObservedResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
}

// Options configures the renderer client.
type Options struct {
	BaseURL string
	// SettleDelay is how long the renderer should wait after network idle
	// before harvesting, forwarded with each request.
	SettleDelay    time.Duration
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
	Miners         []URLMiner
}

// Client calls the render service and mines its snapshots for media URLs.
type Client struct {
	baseURL     string
	settleDelay time.Duration
	httpClient  *http.Client
	logger      zerolog.Logger
	miners      []URLMiner
}

// NewClient builds a renderer client from options, applying defaults.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("render: base url is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	miners := opts.Miners
	if miners == nil {
		miners = defaultMiners()
	}
	settle := opts.SettleDelay
	if settle == 0 {
		settle = 1500 * time.Millisecond
	}
	return &Client{
		baseURL:     opts.BaseURL,
		settleDelay: settle,
		httpClient:  httpClient,
		logger:      logger,
		miners:      miners,
	}, nil
}

type renderRequest struct {
	URL      string `json:"url"`
	SettleMS int64  `json:"settle_ms"`
}

// Render loads the page in the external browser engine and returns its
// snapshot.
func (c *Client) Render(ctx context.Context, target string) (*Snapshot, error) {
	payload, err := json.Marshal(renderRequest{
		URL:      target,
		SettleMS: c.settleDelay.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("render: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/render", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("render: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("render: service returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var snap Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("render: decode snapshot: %w", err)
	}
	return &snap, nil
}

// Extract renders the page, mines the snapshot and fabricates a metadata
// record for the resolver. Duration is unknown for rendered pages and the
// thumbnail is the full-page screenshot.
func (c *Client) Extract(ctx context.Context, target string) (*media.Metadata, error) {
	snap, err := c.Render(ctx, target)
	if err != nil {
		return nil, err
	}

	for _, miner := range c.miners {
		if u, ok := miner.Mine(snap); ok {
			c.logger.Debug().Str("miner", miner.Name()).Str("url", u).Msg("mined media url")
			meta := &media.Metadata{
				ExtractorKey: ExtractorKey,
				Ext:          "mp4",
				Title:        snap.Title,
				Duration:     0,
				WebpageURL:   u,
			}
			if snap.ScreenshotB64 != "" {
				meta.Thumbnail = "data:image/png;base64," + snap.ScreenshotB64
			}
			return meta, nil
		}
	}
	return nil, ErrNoMediaFound
}
