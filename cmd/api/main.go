package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/heritage-connect/internal/api/router"
	"github.com/wolfman30/heritage-connect/internal/app/bootstrap"
	appconfig "github.com/wolfman30/heritage-connect/internal/config"
	"github.com/wolfman30/heritage-connect/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/heritage-connect/internal/http/middleware"
	"github.com/wolfman30/heritage-connect/internal/observability/metrics"
	"github.com/wolfman30/heritage-connect/internal/webchat"
	"github.com/wolfman30/heritage-connect/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)

	// Weekend pricing depends on the zone; refuse to guess.
	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid timezone configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting heritage-connect API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"timezone", loc.String(),
	)

	ctx := context.Background()
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer redisClient.Close()
		logger.Info("redis connected", "addr", cfg.RedisAddr)
	} else {
		logger.Info("redis disabled; using in-memory transcripts")
	}

	cat, err := bootstrap.BuildCatalog(cfg, logger)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	metricsHandler, chatMetrics := setupMetrics()
	svc := bootstrap.BuildChatService(loc, cat,
		bootstrap.BuildTranscriptStore(redisClient, cfg),
		bootstrap.BuildLookupClient(redisClient, cfg, logger),
		chatMetrics, logger,
	)

	// Setup router
	routerCfg := &router.Config{
		Logger:             logger,
		WebChat:            webchat.NewHandler(svc, logger),
		Sites:              handlers.NewSitesHandler(svc, logger),
		Bookings:           handlers.NewBookingsHandler(svc, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	r := router.New(routerCfg)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics registers the chat collectors and Go runtime collectors on a
// private registry.
func setupMetrics() (http.Handler, *metrics.ChatMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewChatMetrics(reg)
}
