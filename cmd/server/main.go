package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/natefinch/lumberjack.v2"

	apihttp "pathportal/internal/api/http"
	"pathportal/internal/app"
	"pathportal/internal/catalog"
	"pathportal/internal/metrics"
	"pathportal/internal/persist"
	"pathportal/internal/store"
	"pathportal/internal/telemetry"
	"pathportal/internal/usecase"
)

const serviceName = "pathportal"

func main() {
	cfg := app.LoadConfig()
	logger, closeLog := newLogger(cfg)
	defer closeLog()
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), telemetry.Options{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRate:  cfg.TraceSampleRate,
	})
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", serviceName),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.String("storeBackend", cfg.StoreBackend),
		slog.String("storePath", cfg.StorePath),
		slog.String("catalogPath", cfg.CatalogPath),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		logger.Error("catalog load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(rootCtx, 10*time.Second)
	backend, err := app.OpenBackend(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("store backend open failed",
			slog.String("backend", cfg.StoreBackend),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	adapter := persist.NewAdapter(backend,
		persist.WithLogger(logger),
		persist.WithTimeout(cfg.StoreTimeout),
	)
	state := store.NewState(adapter)

	trackUC := usecase.TrackPlayback{Progress: state.Progress, Catalog: cat}
	resumeUC := usecase.ResumePosition{Progress: state.Progress, Catalog: cat}
	detailUC := usecase.GetTopicDetail{Catalog: cat, State: state}

	handler := apihttp.NewServer(cat, state,
		apihttp.WithLogger(logger),
		apihttp.WithTrackPlayback(trackUC),
		apihttp.WithResumePosition(resumeUC),
		apihttp.WithTopicDetail(detailUC),
		apihttp.WithContinueWatchingLimit(cfg.ContinueWatchingLimit),
		apihttp.WithAllowedOrigins(cfg.CORSAllowedOrigins),
		apihttp.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("server started",
		slog.String("addr", cfg.HTTPAddr),
		slog.Int("topics", cat.Len()),
	)

	exitCode := 0
	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	handler.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", slog.String("error", err.Error()))
	}
	if err := backend.Close(); err != nil {
		logger.Warn("store backend close error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// newLogger writes to stdout and, when LOG_FILE is set, to a rotated file.
func newLogger(cfg app.Config) (*slog.Logger, func()) {
	options := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var out io.Writer = os.Stdout
	closeFn := func() {}
	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, file)
		closeFn = func() { _ = file.Close() }
	}

	format := strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(out, options)), closeFn
	}
	return slog.New(slog.NewTextHandler(out, options)), closeFn
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
