// tracker fetches TCGPlayer market prices for the cataloged products,
// updates the per-item price history, and posts a per-owner digest to the
// configured webhook.
//
// By default it runs the pipeline once and exits, for use under cron or a
// CI scheduler. With -serve it keeps running: the pipeline repeats on an
// interval and an HTTP API exposes the latest report, value history, and
// Prometheus metrics.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codyseavey/tcg-price-digest/internal/api"
	"github.com/codyseavey/tcg-price-digest/internal/api/handlers"
	"github.com/codyseavey/tcg-price-digest/internal/config"
	"github.com/codyseavey/tcg-price-digest/internal/database"
	"github.com/codyseavey/tcg-price-digest/internal/discord"
	"github.com/codyseavey/tcg-price-digest/internal/pricing"
	"github.com/codyseavey/tcg-price-digest/internal/snapshot"
	"github.com/codyseavey/tcg-price-digest/internal/store"
	"github.com/codyseavey/tcg-price-digest/internal/tracker"
)

func main() {
	serve := flag.Bool("serve", false, "keep running: repeat on an interval and serve the HTTP API")
	interval := flag.Duration("interval", time.Hour, "time between runs in serve mode")
	flag.Parse()

	cfg := config.FromEnv()

	st := store.NewFileStore(cfg.DataPath, cfg.LastRunPath)
	source := pricing.NewTCGPlayerService()
	sink := discord.NewWebhookClient(cfg.WebhookURL)
	if !sink.Enabled() {
		log.Println("DISCORD_WEBHOOK_URL not set: reports will not be delivered")
	}

	opts := []tracker.Option{}

	// Optional per-owner value archive
	var snapshots *snapshot.Service
	if cfg.SnapshotDBPath != "" {
		db, err := database.Open(cfg.SnapshotDBPath)
		if err != nil {
			log.Fatalf("Failed to open snapshot database: %v", err)
		}
		snapshots = snapshot.NewService(db)
		opts = append(opts, tracker.WithSnapshots(snapshots))
	}

	t := tracker.New(cfg.CatalogPath, st, source, sink, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !*serve {
		if _, err := t.Run(ctx); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
		return
	}

	// Serve mode: run on an interval and expose the API
	cache := handlers.NewReportCache()

	go func() {
		runOnce := func() {
			if rep, err := t.Run(ctx); err != nil {
				log.Printf("Run failed: %v", err)
			} else {
				cache.Set(rep)
			}
		}

		runOnce()
		ticker := time.NewTicker(*interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runOnce()
			}
		}
	}()

	router := api.SetupRouter(cache, snapshots)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s (run interval %v)", cfg.Port, *interval)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
