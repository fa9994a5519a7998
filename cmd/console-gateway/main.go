// cmd/console-gateway/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"directory-console/internal/common/backend"
	"directory-console/internal/common/config"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/observability"
	"directory-console/internal/gateway"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: configs/config.yaml)")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting console gateway...")

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.Observability.ServiceName + "-gateway")
	defer obs.Shutdown()

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	client, err := backend.NewClient(cfg.Backend, log)
	if err != nil {
		zapLog.Fatal("backend client setup failed", zap.Error(err))
	}

	var upstream *url.URL
	if cfg.Gateway.UpstreamURL != "" {
		upstream, err = url.Parse(cfg.Gateway.UpstreamURL)
		if err != nil {
			zapLog.Fatal("invalid upstream url", zap.Error(err))
		}
	} else {
		zapLog.Warn("No upstream configured, pages will answer 404")
	}

	guard := gateway.NewRouteGuard(
		client,
		cfg.Gateway.SessionCookie,
		config.GetDuration(cfg.Gateway.SessionCheckTimeout),
		log,
	)
	router := gateway.NewRouter(gateway.Options{
		Guard:    guard,
		Upstream: upstream,
		Logger:   log,
		Metrics:  cfg.Observability.MetricsEnabled,
	})

	srv := &http.Server{
		Addr:              cfg.Gateway.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("Gateway listening",
			zap.String("address", cfg.Gateway.Address),
			zap.String("upstream", cfg.Gateway.UpstreamURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("Gateway server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining connections...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down gateway", zap.Error(err))
	}

	zapLog.Info("Console gateway stopped gracefully")
}
