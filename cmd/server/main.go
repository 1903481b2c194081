package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/mdlive/internal/api"
	"github.com/dgallion1/mdlive/internal/config"
	"github.com/dgallion1/mdlive/internal/outline"
	"github.com/dgallion1/mdlive/internal/session"
	"github.com/dgallion1/mdlive/internal/store"
	"github.com/dgallion1/mdlive/internal/stream"
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

	// Initialize persistence.
	var st store.Store
	switch cfg.StoreBackend {
	case "remote":
		st = store.NewRemote(cfg.KVStoreURL, cfg.KVStoreAPIKey)
	default:
		bs, err := store.OpenBadger(cfg.BadgerPath, log)
		if err != nil {
			log.Error("open store", "path", cfg.BadgerPath, "error", err)
			os.Exit(1)
		}
		st = bs
	}

	// Fallback outline material.
	src, err := outline.LoadStatic(cfg.OutlinePath)
	if err != nil {
		log.Error("load outline", "path", cfg.OutlinePath, "error", err)
		os.Exit(1)
	}

	// Upstream generation client and session manager.
	client := stream.NewClient(cfg.UpstreamURL, cfg.UpstreamAPIKey)
	sessions := session.NewManager(client, st, src, session.Config{
		PatchDebounce:    cfg.PatchDebounce,
		SnapshotDebounce: cfg.SnapshotDebounce,
		SessionTTL:       cfg.SessionTTL,
	}, log)
	sessions.Run(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(sessions, st, log, cfg)

	httpServer := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     srv,
		ReadTimeout: 30 * time.Second,
		// No write timeout: the preview endpoint holds an SSE
		// response open for the lifetime of a session.
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		sessions.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
		if err := st.Close(); err != nil {
			log.Error("close store", "error", err)
		}
	}()

	log.Info("starting mdlive", "port", cfg.Port, "store_backend", cfg.StoreBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
