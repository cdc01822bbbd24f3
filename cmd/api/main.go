package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mediagrab/internal/delivery"
	"mediagrab/internal/extractor/render"
	"mediagrab/internal/extractor/ytdlp"
	"mediagrab/internal/http/handlers"
	"mediagrab/internal/http/httpapi"
	"mediagrab/internal/infra"
	"mediagrab/internal/resolver"
	"mediagrab/internal/transform/ffmpeg"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	extractor := ytdlp.NewClient(ytdlp.Options{
		BinPath: cfg.YtDlpPath,
		Logger:  &logger,
	})

	var renderer resolver.PageRenderer
	if cfg.RendererBaseURL != "" {
		rc, err := render.NewClient(render.Options{
			BaseURL:     cfg.RendererBaseURL,
			SettleDelay: cfg.RenderSettleDelay,
			Logger:      &logger,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure renderer client")
		}
		renderer = rc
	} else {
		logger.Warn().Msg("no renderer configured, page-render fallback disabled")
	}

	svc := resolver.New(extractor, renderer, logger)

	engine := ffmpeg.NewEngine(ffmpeg.Options{
		BinPath: cfg.FfmpegPath,
		Logger:  &logger,
	})

	pipeline := delivery.NewPipeline(delivery.Options{
		Resolver:      svc,
		Transformer:   engine,
		Remuxer:       extractor,
		MinVideoBytes: cfg.MinVideoBytes,
		Logger:        &logger,
	})

	app := handlers.NewApp(logger, svc, pipeline)
	router := httpapi.NewRouter(cfg, logger, app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	logger.Info().Msg("server stopped")
}
