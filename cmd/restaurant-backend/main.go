// main is the entry point of the development backend: a SQLite-backed
// server speaking the same REST contract as the production restaurant
// backend, for local runs of the front end.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open (and set up) the SQLite database
//  4. Register the restaurant routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//     or the listener fails
//  7. Gracefully shut down: finish in-flight requests, close the
//     database, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/restaurant-backend --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/restaurant-backend
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aanand-mishra/restaurant-directory/internal/config"
	"github.com/aanand-mishra/restaurant-directory/internal/http/handlers/restaurant"
	"github.com/aanand-mishra/restaurant-directory/internal/logger"
	"github.com/aanand-mishra/restaurant-directory/internal/storage/sqlite"
	"github.com/aanand-mishra/restaurant-directory/internal/validation"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Handlers log through the slog package functions, so the configured
	// logger becomes the default.
	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting restaurant-backend",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage (Database) ──────────────────────────────────
	if dir := filepath.Dir(cfg.StoragePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error("failed to create storage directory",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	store, err := sqlite.New(cfg.StoragePath)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	router := http.NewServeMux()
	restaurant.Register(router, cfg.ResourcePath(), store, validation.New())

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: router,

		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6-8. Serve until a signal arrives, then shut down ────────────────
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, server, store, log); err != nil {
		stop()
		os.Exit(1)
	}
	log.Info("server stopped gracefully")
}

// serve runs server until ctx is done or the listener fails, then shuts it
// down and closes store. store is closed on every path.
func serve(ctx context.Context, server *http.Server, store io.Closer, log *slog.Logger) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", server.Addr))

		// ListenAndServe returns http.ErrServerClosed after Shutdown().
		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping server...")
	case runErr = <-serveErr:
		log.Error("server encountered an error",
			slog.String("error", runErr.Error()))
	}

	// In-flight requests get 5 seconds to finish.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		runErr = errors.Join(runErr, err)
	}

	if err := store.Close(); err != nil {
		log.Error("failed to close storage",
			slog.String("error", err.Error()))
		runErr = errors.Join(runErr, err)
	}
	return runErr
}
