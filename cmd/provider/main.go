// Vimeo Provider - Vimeo to Catalog Ingest Adapter
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vimeo-provider

// Command provider runs the Vimeo provider daemon: it connects to the
// message bus (or embeds a NATS server), registers the album and video
// query handlers, and serves health and metrics endpoints, all under a
// suture supervision tree.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vimeo-provider/internal/bus"
	"github.com/tomtom215/vimeo-provider/internal/config"
	"github.com/tomtom215/vimeo-provider/internal/logging"
	"github.com/tomtom215/vimeo-provider/internal/provider"
	"github.com/tomtom215/vimeo-provider/internal/supervisor"
	"github.com/tomtom215/vimeo-provider/internal/supervisor/services"
	"github.com/tomtom215/vimeo-provider/internal/vimeo"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vimeo-provider %s (built %s)\n", version, buildTime)
		return
	}

	if err := run(); err != nil {
		logging.Error().Err(err).Msg("provider exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("version", version).
		Str("nats_url", cfg.NATS.URL).
		Bool("nats_embedded", cfg.NATS.Embedded).
		Msg("starting vimeo provider")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bus transport: embedded server for single-instance deployments,
	// remote URL otherwise.
	natsURL := cfg.NATS.URL
	var embedded *bus.EmbeddedServer
	if cfg.NATS.Embedded {
		embedded, err = bus.NewEmbeddedServer(bus.EmbeddedServerOptions{})
		if err != nil {
			return fmt.Errorf("start embedded NATS: %w", err)
		}
		natsURL = embedded.ClientURL()
		logging.Info().Str("url", natsURL).Msg("embedded NATS server ready")
	}

	busConn, err := bus.ConnectNATS(bus.Config{
		URL:            natsURL,
		QueueGroup:     cfg.NATS.QueueGroup,
		RequestTimeout: cfg.NATS.RequestTimeout,
		MaxReconnects:  cfg.NATS.MaxReconnects,
		ReconnectWait:  cfg.NATS.ReconnectWait,
	})
	if err != nil {
		return fmt.Errorf("connect bus: %w", err)
	}
	defer func() {
		if err := busConn.Close(); err != nil {
			logging.Warn().Err(err).Msg("bus close failed")
		}
	}()

	client := buildClient(cfg, busConn)
	if _, err := provider.Initialize(busConn, provider.Options{
		Client:           client,
		PageSize:         cfg.Vimeo.PageSize,
		FetchVideoConfig: cfg.Vimeo.FetchVideoConfig,
	}); err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      newRouter(busConn),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(slogLogger(cfg.Logging.Level), supervisor.DefaultTreeConfig())
	if embedded != nil {
		tree.AddBusService(services.NewBusServerService(embedded))
	}
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.Timeout))

	logging.Info().Str("addr", httpServer.Addr).Msg("provider running")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervision tree: %w", err)
	}
	logging.Info().Msg("provider stopped")
	return nil
}

// buildClient assembles the upstream client with the bus-backed rate
// limit notifier and, when enabled, the circuit breaker decorator.
func buildClient(cfg *config.Config, b bus.Bus) vimeo.API {
	var client vimeo.API = vimeo.NewClient(vimeo.Options{
		AccessToken:       cfg.Vimeo.AccessToken,
		BaseURL:           cfg.Vimeo.APIBaseURL,
		PlayerBaseURL:     cfg.Vimeo.PlayerBaseURL,
		HTTPClient:        &http.Client{Timeout: cfg.Vimeo.Timeout},
		CooldownWindow:    cfg.Vimeo.CooldownWindow,
		RequestsPerSecond: cfg.Vimeo.RequestsPerSecond,
		Notifier:          &busNotifier{bus: b},
	})
	if cfg.Vimeo.CircuitBreaker {
		client = vimeo.NewCircuitBreakerClient(client)
	}
	return client
}

// busNotifier forwards client rate-limit notifications to bus broadcasts.
type busNotifier struct {
	bus bus.Bus
}

func (n *busNotifier) Notify(ctx context.Context, level string, payload interface{}) {
	if err := n.bus.Broadcast(ctx, bus.Pattern{Level: level}, payload); err != nil {
		logging.Warn().Err(err).Str("level", level).Msg("rate limit broadcast failed")
	}
}

// newRouter serves liveness, readiness, and Prometheus metrics.
func newRouter(busConn *bus.NATSBus) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !busConn.IsConnected() {
			http.Error(w, "bus disconnected", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// slogLogger builds the slog logger sutureslog consumes, matching the
// zerolog level.
func slogLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "trace", "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
