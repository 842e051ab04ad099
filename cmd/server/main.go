package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pathstore"
	"github.com/dgallion1/docoutline/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Persistence is optional.
	var (
		ps    *pathstore.Client
		store pipeline.OutlineStore
		docs  api.DocumentStore
	)
	if cfg.PersistenceEnabled() {
		ps = pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		store, docs = ps, ps
		log.Info("persistence enabled", "pathstore_url", cfg.PathstoreURL)
	}

	// Initialize pipeline.
	stats := pipeline.NewStats(cfg.StatsWindow)
	orch := pipeline.NewOrchestrator(cfg, store, stats, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, docs, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting docoutline", "port", cfg.Port, "workers", cfg.WorkerCount)
	err := serve(httpServer, sigCh, log, func() {
		orch.Stop()
		if ps != nil {
			ps.Close()
		}
	})
	if err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// serve runs httpServer until a signal arrives on stop, then drains it
// and runs cleanup. It returns only after cleanup has finished.
func serve(httpServer *http.Server, stop <-chan os.Signal, log *slog.Logger, cleanup func()) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-stop
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
		cleanup()
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
