// main.go - HTTP server entry point
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"sitepulse/internal"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
	log.Println("Server shutdown complete")
}

func run() error {
	app, err := internal.NewApp()
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	if err := app.DBManager.MigrateDatabase(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := app.StartAsync(); err != nil {
		return fmt.Errorf("start application: %w", err)
	}
	log.Println("Application started")

	// Block until a termination signal arrives, then drain
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	<-ctx.Done()
	stop()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
