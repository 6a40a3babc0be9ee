package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/trigger-functions/config"
	"github.com/angeloszaimis/trigger-functions/internal/function"
	"github.com/angeloszaimis/trigger-functions/internal/httpserver"
	"github.com/angeloszaimis/trigger-functions/internal/metrics"
	"github.com/angeloszaimis/trigger-functions/pkg/logger"
)

const serviceName = "trigger-functions"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exporter := metrics.NewExporter(cfg.Metrics.Namespace)
	collector := metrics.NewCollector(cfg.Metrics.BufferSize, exporter, log)
	collector.Start(ctx)

	functions := createFunctions(cfg, log, collector)

	router := setupRouter(functions, collector, exporter)

	read, write, idle := cfg.Server.Timeouts()
	srv, err := httpserver.New(cfg.Server.Address, router, httpserver.Timeouts{
		Read:  read,
		Write: write,
		Idle:  idle,
	})
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		log.Info("Serving trigger functions", slog.String("addr", srv.Addr()))
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// route pairs a trigger function with the path segment it is served under.
type route struct {
	path    string
	handler http.Handler
}

func createFunctions(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) []route {
	opts := function.Options{
		Key:          cfg.Functions.Key,
		MaxBodyBytes: cfg.Functions.MaxBodyBytes,
	}

	arithmetic := function.NewArithmetic(function.Operands{
		A:       cfg.Functions.Arithmetic.A,
		B:       cfg.Functions.Arithmetic.B,
		NDigits: cfg.Functions.Arithmetic.NDigits,
	}, opts, log, collector)

	dataset := function.NewDataset(function.DefaultDataset(), opts, log, collector)

	return []route{
		{path: cfg.Functions.Arithmetic.Route, handler: arithmetic},
		{path: cfg.Functions.Dataset.Route, handler: dataset},
	}
}
