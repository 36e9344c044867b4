// Package main implements the entry point for the pipewright server.
// Pipewright answers multimedia pipeline questions over JSON HTTP: caps
// negotiation, pipeline description validation, simulated pipeline runs,
// and DOT graph export.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/c360/pipewright/config"
	"github.com/c360/pipewright/docs"
	"github.com/c360/pipewright/element"
	"github.com/c360/pipewright/events"
	"github.com/c360/pipewright/gateway"
	"github.com/c360/pipewright/metric"
	"github.com/c360/pipewright/pipeline"
	"github.com/c360/pipewright/simengine"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "pipewright"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cliCfg.LogLevel != "" {
		cfg.Logging.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Logging.Format = cliCfg.LogFormat
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if cliCfg.Validate {
		slog.Info("Configuration is valid", "config_path", cliCfg.ConfigPath)
		return nil
	}

	slog.Info("Starting pipewright (pipeline orchestration)",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	metricsRegistry := metric.NewMetricsRegistry()
	registry := element.Builtin()
	engine := simengine.New(simengine.WithBufferInterval(cfg.Engine.BufferInterval))

	var publisher *events.NATSPublisher
	if cfg.Events.Enabled {
		publisher, err = events.NewNATSPublisher(cfg.Events.URL, cfg.Events.SubjectPrefix, logger)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer publisher.Close()
		slog.Info("State-change event publishing enabled", "url", cfg.Events.URL)
	}

	pipelineOpts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(metricsRegistry.CoreMetrics()),
		pipeline.WithPollInterval(cfg.Engine.PollInterval),
	}
	if publisher != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithPublisher(publisher))
	}
	pipelines := pipeline.NewRegistry(engine, pipelineOpts...)

	fetcher := docs.NewFetcher(registry,
		docs.WithBaseURL(cfg.Docs.BaseURL),
		docs.WithLogger(logger))

	srv, err := gateway.New(gateway.Config{
		Registry:       registry,
		Pipelines:      pipelines,
		Fetcher:        fetcher,
		Metrics:        metricsRegistry,
		Logger:         logger,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	return serve(cfg, srv.Handler(), pipelines, cliCfg.ShutdownTimeout)
}

// serve runs the HTTP server until a shutdown signal arrives, then drains
// the server and force-stops any live pipelines.
func serve(cfg config.Config, handler http.Handler, pipelines *pipeline.Registry, shutdownTimeout time.Duration) error {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	signalCtx, signalCancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-signalCtx.Done():
		slog.Info("Received shutdown signal")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown incomplete", "error", err)
	}
	if err := pipelines.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("pipeline shutdown: %w", err)
	}

	slog.Info("pipewright shutdown complete")
	return nil
}
