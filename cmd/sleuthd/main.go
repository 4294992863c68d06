package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sleuth/internal/config"
	"sleuth/internal/dataset"
	"sleuth/internal/llm"
	"sleuth/internal/research"
	"sleuth/internal/server"
	"sleuth/internal/session"
	"sleuth/internal/session/memory"
	"sleuth/internal/session/sqlite"
	"sleuth/internal/sqlquery"
	"sleuth/internal/tavily"
	"sleuth/internal/telemetry"
	"sleuth/internal/webpage"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.LLM.APIKey == "" {
		log.Fatalf("LLM API key not configured: set SLEUTH_LLM__API_KEY or llm.api_key in config.yaml")
	}
	if cfg.Tavily.APIKey == "" {
		logger.Warn("Tavily API key not configured; research requests will fail")
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup("sleuth", logger)
		if err != nil {
			log.Fatalf("Failed to initialize tracer: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
			}
		}()
	}

	db, err := dataset.Open(cfg.Dataset.Path)
	if err != nil {
		log.Fatalf("Failed to open dataset: %v", err)
	}
	defer db.Close()

	var sessions session.Store
	switch cfg.Sessions.Backend {
	case "sqlite":
		sessions, err = sqlite.New(cfg.Sessions.Path)
		if err != nil {
			log.Fatalf("Failed to open session store: %v", err)
		}
	case "memory":
		sessions = memory.New()
	default:
		log.Fatalf("Unknown sessions backend %q (want memory or sqlite)", cfg.Sessions.Backend)
	}
	defer sessions.Close()

	generator := llm.NewClient(cfg.LLM.APIKey,
		llm.WithBaseURL(cfg.LLM.BaseURL),
		llm.WithModel(cfg.LLM.Model),
		llm.WithTemperature(cfg.LLM.Temperature),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
	)
	searcher := tavily.NewClient(cfg.Tavily.APIKey)
	fetcher := webpage.NewFetcher()

	queries := sqlquery.NewService(generator, db, sessions, logger)
	researcher := research.NewService(generator, searcher, fetcher, sessions, research.Config{
		MaxResults:     cfg.Research.MaxResults,
		FetchDelay:     cfg.Research.FetchDelay,
		PageTokenLimit: cfg.Research.PageTokenLimit,
	}, logger)

	srv := server.New(cfg.Server.Port, logger, queries, researcher, sessions, db.SchemaDescription())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	logger.Info("sleuth daemon started",
		slog.Int("port", cfg.Server.Port),
		slog.String("model", cfg.LLM.Model),
		slog.String("dataset", cfg.Dataset.Path),
		slog.String("sessions", cfg.Sessions.Backend),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	case <-sigChan:
	}

	logger.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Shutdown complete")
}
