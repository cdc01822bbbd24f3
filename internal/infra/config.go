package infra

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	// External tool locations. Bare names are looked up on PATH.
	YtDlpPath  string
	FfmpegPath string

	// RendererBaseURL points at the page-render service used when yt-dlp
	// cannot extract a site. Empty disables the fallback.
	RendererBaseURL string

	// RenderSettleDelay is how long the renderer waits after network idle
	// before harvesting page state.
	RenderSettleDelay time.Duration

	// MinVideoBytes is the smallest declared content-length accepted for a
	// video response. Anything below it is treated as a broken or
	// placeholder asset.
	MinVideoBytes int64

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	AllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "3000"),
		YtDlpPath:         getEnv("YTDLP_PATH", "yt-dlp"),
		FfmpegPath:        getEnv("FFMPEG_PATH", "ffmpeg"),
		RendererBaseURL:   os.Getenv("RENDERER_BASE_URL"),
		RenderSettleDelay: time.Millisecond * time.Duration(getEnvInt("RENDER_SETTLE_MS", 1500)),
		MinVideoBytes:     int64(getEnvInt("MIN_VIDEO_BYTES", 100*1024)),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		// Deliveries stream large assets, so the write timeout defaults to
		// unlimited. Set it when fronting with a proxy that enforces its own
		// deadline.
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 0)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitRequests: getEnvInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Minute * time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15)),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
