package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ragnaraven/zitadel-go-dual/internal/config"
	"github.com/ragnaraven/zitadel-go-dual/internal/observability"
	"github.com/ragnaraven/zitadel-go-dual/internal/service"
	"github.com/ragnaraven/zitadel-go-dual/internal/tracing"
)

const component = "zitadel-service"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.PathEnv))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fs := flag.NewFlagSet(component, flag.ContinueOnError)
	cfg.RegisterFlags(fs)
	fs.StringVar(&cfg.ServiceAddr, "addr", cfg.ServiceAddr, "HTTP listen address")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "metrics listen address, empty to serve /metrics on -addr only")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	logger := observability.NewLogger(component, observability.ParseLogLevel(cfg.LogLevel))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	tcfg := tracing.GetConfig(component).ForTarget(cfg.Endpoint, cfg.Transport)
	tracer, shutdownTracing, err := tracing.Initialize(ctx, tcfg, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	reg := observability.NewRegistry()
	svc, err := service.New(ctx, cfg, service.Deps{
		Logger:     logger,
		Registerer: reg,
		Tracer:     tracer,
		Tracing:    tcfg.InstrumentTransports(),
	})
	if err != nil {
		return err
	}
	defer svc.Close()

	health := observability.NewHealthServer(svc.HealthCheck)
	handler := service.NewHandler(svc, health, reg, logger)

	httpServer := &http.Server{
		Addr:              cfg.ServiceAddr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	var metricsServer *http.Server
	if cfg.MetricsAddr != "" && cfg.MetricsAddr != cfg.ServiceAddr {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", observability.MetricsHandler(reg))
		metricsServer = &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			logger.Info("metrics server starting", "addr", cfg.MetricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.ServiceAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if err := svc.HealthCheck(ctx); err != nil {
		logger.Warn("zitadel not reachable at startup, readiness will retry", "error", err)
	}
	health.SetReady(true)

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	// Graceful shutdown
	health.SetReady(false)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return runErr
}
