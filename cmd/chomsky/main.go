package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msto63/arcanequest/internal/chomsky/server"
	"github.com/msto63/arcanequest/pkg/core/config"
	"github.com/msto63/arcanequest/pkg/core/logging"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logging.New("chomsky").Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.LoggerConfig{
		ServiceName: "chomsky",
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
	})
	logger.Info("Starting Chomsky Language Service")

	// Create server
	srv, err := server.New(server.ConfigFrom(cfg, logger))
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	if srv.Service().HistoryEnabled() && cfg.Retention() > 0 {
		if n, err := srv.Service().Prune(context.Background(), cfg.Retention()); err != nil {
			logger.Warn("Failed to prune run history", "error", err)
		} else if n > 0 {
			logger.Info("Run history pruned", "removed", n)
		}
	}

	// Start server
	if err := srv.StartAsync(); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}

	logger.Info("Chomsky server started", "address", srv.Address())

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutdown signal received, stopping server...")

	timeout := cfg.Server.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}

	logger.Info("Chomsky server stopped")
}
