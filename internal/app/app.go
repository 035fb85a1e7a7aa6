// Package app assembles the server: configuration, logging router, hub,
// simulation loop, and HTTP surface.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	server "paddle-arena/server"
	"paddle-arena/server/internal/config"
	servernet "paddle-arena/server/internal/net"
	"paddle-arena/server/internal/sim"
	"paddle-arena/server/internal/telemetry"
	"paddle-arena/server/logging"
	loggingsinks "paddle-arena/server/logging/sinks"
)

// Options controls Run.
type Options struct {
	ConfigPath string
	Logger     telemetry.Logger
}

// Run starts the server and blocks until ctx is cancelled or the HTTP server
// fails.
func Run(ctx context.Context, opts Options) error {
	telemetryLogger := opts.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}
	fallbackLogger := log.Default()
	if provider, ok := telemetryLogger.(interface{ StandardLogger() *log.Logger }); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}

	configPath := opts.ConfigPath
	if env := os.Getenv("PADDLE_ARENA_CONFIG"); configPath == "" && env != "" {
		configPath = env
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	router, err := buildLoggingRouter(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to construct logging router: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	hub := server.NewHub(server.HubConfig{
		Logger:          telemetryLogger,
		TickRate:        cfg.Game.TickRate,
		CatchupMaxTicks: cfg.Game.CatchupMaxTicks,
		ArenaWidth:      cfg.Game.ArenaWidth,
		PaddleHalfWidth: cfg.Game.PaddleHalfWidth,
		PaddleSpeed:     cfg.Game.PaddleSpeed,
		Motion: sim.MotionConfig{
			EnableSmoothing: cfg.Motion.EnableSmoothing,
			SmoothingRate:   cfg.Motion.SmoothingRate,
		},
	}, router)

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	handler := servernet.NewHTTPHandler(hub, servernet.HTTPHandlerConfig{
		ClientDir: cfg.Game.ClientDir,
		Logger:    fallbackLogger,
	})

	srv := &http.Server{Addr: cfg.Listen.Addr(), Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	telemetryLogger.Printf("server listening on %s", srv.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}

func buildLoggingRouter(cfg config.LoggingConfig) (*logging.Router, error) {
	logCfg := logging.DefaultConfig()
	logCfg.EnabledSinks = cfg.Sinks

	var namedSinks []logging.NamedSink
	if logCfg.HasSink("console") {
		namedSinks = append(namedSinks, logging.NamedSink{
			Name: "console",
			Sink: loggingsinks.NewConsole(os.Stdout, logCfg.Console),
		})
	}
	if logCfg.HasSink("json") && cfg.JSONFile != "" {
		file, err := os.OpenFile(cfg.JSONFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open json log %s: %w", cfg.JSONFile, err)
		}
		namedSinks = append(namedSinks, logging.NamedSink{
			Name: "json",
			Sink: loggingsinks.NewJSON(file, logCfg.JSON.FlushInterval),
		})
	}

	return logging.NewRouter(logging.SystemClock{}, logCfg, namedSinks)
}
