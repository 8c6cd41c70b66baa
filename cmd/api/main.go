package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpadapter "github.com/icyphotoget/perfume/internal/adapters/http"
	"github.com/icyphotoget/perfume/internal/bootstrap"
	"github.com/icyphotoget/perfume/internal/config"
	"github.com/icyphotoget/perfume/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		slog.Error("api_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := bootstrap.SetupLogging(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := bootstrap.SetupTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("tracing_shutdown_failed", "error", err)
		}
	}()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	router, err := httpadapter.NewRouter(cfg, httpadapter.Dependencies{
		Recommender: app.RecommendUC,
		Catalog:     app.CatalogUC,
		Readiness:   app.Store,
		Metrics:     app.Metrics,
	})
	if err != nil {
		return err
	}
	server := &http.Server{
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	listen := func() (net.Listener, error) {
		listener, err := net.Listen("tcp", ":"+cfg.APIPort)
		if err != nil {
			return nil, err
		}
		if cfg.MaxConnections > 0 {
			listener = netutil.LimitListener(listener, cfg.MaxConnections)
		}
		return listener, nil
	}

	tree := supervisor.NewTree(logger, supervisor.TreeConfig{ShutdownTimeout: cfg.ShutdownTimeout})
	tree.AddAPIService(supervisor.NewHTTPService(server, listen, cfg.ShutdownTimeout))
	if refresher := app.CatalogRefresher(); refresher != nil {
		tree.AddMessagingService(refresher)
	}

	slog.Info("api_starting",
		"port", cfg.APIPort,
		"catalog_source", cfg.CatalogSource,
		"llm_provider", cfg.LLMProvider,
		"nats_enabled", cfg.NATSEnabled,
	)
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	slog.Info("api_stopped")
	return nil
}
