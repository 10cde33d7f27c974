// Command forwarder hosts the notification function over HTTP for local
// development and container deployments.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	// registers the function with the framework
	"github.com/charlesng35/paintstore"
	"github.com/charlesng35/paintstore/internal/app"
	"github.com/charlesng35/paintstore/internal/monitoring"
	"github.com/charlesng35/paintstore/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := app.ConfigureLogging(cfg.Server.LogLevel, cfg.Server.LogFormat); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("forwarder")

	target := functionTarget(cfg)
	if err := os.Setenv("FUNCTION_TARGET", target); err != nil {
		return fmt.Errorf("set function target: %w", err)
	}

	if listen := strings.TrimSpace(cfg.Monitoring.Prometheus.Listen); listen != "" && cfg.Monitoring.Prometheus.Enabled {
		module, err := monitoring.NewModule(monitoring.Options{})
		if err != nil {
			return fmt.Errorf("initialise monitoring: %w", err)
		}
		monitoring.SetModule(module)

		metrics := module.MetricsServer(listen, cfg.Monitoring.Prometheus.Endpoint)
		go func() {
			log.Info("metrics listening", zap.String("addr", listen))
			if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = metrics.Shutdown(shutdownCtx)
		}()
	}

	port := listenPort(cfg)
	log.Info("function host listening", zap.String("port", port), zap.String("target", target))

	hostErr := make(chan error, 1)
	go func() {
		hostErr <- funcframework.Start(port)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		return nil
	case err := <-hostErr:
		return fmt.Errorf("function host: %w", err)
	}
}

// functionTarget prefers FUNCTION_TARGET as set by the hosting platform.
func functionTarget(cfg *app.Config) string {
	if target := strings.TrimSpace(os.Getenv("FUNCTION_TARGET")); target != "" {
		return target
	}
	if target := strings.TrimSpace(cfg.Forwarder.FunctionTarget); target != "" {
		return target
	}
	return paintstore.FunctionName
}

// listenPort prefers PORT as set by the hosting platform.
func listenPort(cfg *app.Config) string {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return port
	}
	return strconv.Itoa(cfg.Forwarder.Port)
}
