// Package ffmpeg adapts the external media transform engine for the
// watermark-blur delivery path.
package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/rs/zerolog"

	"mediagrab/internal/media"
)

// blurFilter splits the input, blurs the bottom-right quadrant region (30%
// width by 25% height) and overlays it back in place.
const blurFilter = "[0:v]split=2[base][tmp];" +
	"[tmp]crop=iw*0.3:ih*0.25:iw*0.7:ih*0.75,boxblur=12:1[blur];" +
	"[base][blur]overlay=iw*0.7:ih*0.75[outv]"

// Options configures the transform engine adapter.
type Options struct {
	BinPath string
	Logger  *zerolog.Logger
}

// Engine wraps one ffmpeg installation.
type Engine struct {
	binPath   string
	logger    zerolog.Logger
	available func() bool
}

// NewEngine builds an Engine from options, applying defaults. Availability of
// the binary is probed lazily, once per process.
func NewEngine(opts Options) *Engine {
	bin := opts.BinPath
	if bin == "" {
		bin = "ffmpeg"
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	e := &Engine{binPath: bin, logger: logger}
	e.available = sync.OnceValue(e.probe)
	return e
}

func (e *Engine) probe() bool {
	err := exec.Command(e.binPath, "-version").Run()
	if err != nil {
		e.logger.Warn().Err(err).Str("bin", e.binPath).Msg("transform engine unavailable")
	}
	return err == nil
}

// Available reports whether the transform engine can be invoked at all. The
// answer is computed once and treated as static for the process lifetime.
func (e *Engine) Available() bool {
	return e.available()
}

// StreamBlur re-encodes the input with the watermark-blur filter graph and
// writes fragmented MP4 to w so the client can start playing before the
// whole file exists. Audio passes through unmodified.
func (e *Engine) StreamBlur(ctx context.Context, inputURL string, w io.Writer) error {
	args := blurArgs(inputURL)
	cmd := exec.CommandContext(ctx, e.binPath, args...)
	cmd.Stdout = w

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			e.logger.Debug().Str("tool", "ffmpeg").Msg(scanner.Text())
		}
	}()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

func blurArgs(inputURL string) []string {
	args := []string{
		"-user_agent", "Mozilla/5.0",
	}
	if media.IsSoraURL(inputURL) {
		args = append(args, "-headers", "Referer: https://sora.chatgpt.com/\r\nOrigin: https://sora.chatgpt.com\r\n")
	}
	args = append(args,
		"-i", inputURL,
		"-filter_complex", blurFilter,
		"-map", "[outv]",
		"-map", "0:a?",
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "copy",
		"-movflags", "frag_keyframe+empty_moov",
		"-pix_fmt", "yuv420p",
		"-f", "mp4",
		"-",
	)
	return args
}
