// Package main provides the entry point for the Bookshelf server application.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookshelf/internal/di"
	"github.com/listenupapp/bookshelf/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	// Get logger for shutdown messages
	log := do.MustInvoke[*logger.Logger](injector)

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	// The container shuts down in reverse dependency order: the HTTP server
	// drains first, then the search index and the storage backend close.
	if report := injector.Shutdown(); report != nil && !report.Succeed {
		log.Error("Shutdown error", "error", report.Error())
		os.Exit(1)
	}

	log.Info("Server stopped")
}
