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

	"github.com/go-chi/chi/v5"

	"news-portal/api"
	"news-portal/config"
	"news-portal/fetch"
	"news-portal/gen"
	"news-portal/store"
	"news-portal/trending"
)

func main() {
	// Structured JSON logging to stdout
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfgPath := "./config.yaml"
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.Info("config loaded", "listen_addr", cfg.ListenAddr, "model", cfg.GeminiModel)

	// Set log level
	switch cfg.LogLevel {
	case "debug":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
	case "warn":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})))
	case "error":
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	}

	// Initialize storage
	st, err := store.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("store initialized", "db_path", cfg.DBPath)

	if err := st.Seed(); err != nil {
		slog.Error("failed to seed catalogs", "error", err)
		os.Exit(1)
	}

	// Initialize generation components with a bounded timeout
	genClient := &http.Client{Timeout: time.Duration(cfg.GenTimeoutSecs) * time.Second}
	backend := gen.NewBackend(cfg.GeminiAPIKey, cfg.GeminiModel, genClient)
	summarizer := gen.NewSummarizer(backend)
	answerer := gen.NewEngine(backend)
	fetcher := fetch.NewFetcher(time.Duration(cfg.FetchTimeoutSecs) * time.Second)

	// Trending refresher
	refresher := trending.New(st, cfg.TrendingCount)
	if err := refresher.Schedule(cfg.TrendingEveryHours); err != nil {
		slog.Error("failed to schedule trending refresh", "error", err)
		os.Exit(1)
	}
	refresher.Start()
	defer refresher.Stop()
	if err := refresher.Run(); err != nil {
		slog.Warn("initial trending refresh failed", "error", err)
	}

	// HTTP surface
	server := api.New(api.Deps{
		Prefs:      st,
		Articles:   st,
		Catalog:    st,
		Summarizer: summarizer,
		Answerer:   answerer,
		Fetcher:    fetcher,
	})
	router := chi.NewRouter()
	server.RegisterHTTP(router)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}
