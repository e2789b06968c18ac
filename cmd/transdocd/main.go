package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mikael-ade/transdoc/internal/common"
	"github.com/mikael-ade/transdoc/internal/export"
	"github.com/mikael-ade/transdoc/internal/extract"
	"github.com/mikael-ade/transdoc/internal/genai"
	"github.com/mikael-ade/transdoc/internal/server"
	"github.com/mikael-ade/transdoc/internal/session"
	"github.com/mikael-ade/transdoc/internal/translate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.GenAI.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set; AI extraction and translation will be rejected until configured")
	}

	client := genai.NewClient(genai.Config{
		APIKey:  cfg.GenAI.APIKey,
		BaseURL: cfg.GenAI.BaseURL,
		Model:   cfg.GenAI.Model,
		Timeout: cfg.GenAI.Timeout,
	}, logger)

	sessions := session.NewStore(cfg.Server.SessionTTL)
	extractor := extract.NewService(client, logger)
	engine := translate.NewEngine(client, logger, cfg.GenAI.MaxConcurrent)
	exporter := export.NewService(logger)

	srv := server.NewServer(sessions, extractor, engine, exporter, cfg.Server, logger)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session expiry loop.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Cleanup(); n > 0 {
					logger.Info("sessions.expired", "removed", n, "live", sessions.Len())
				}
			}
		}
	}()

	go func() {
		<-ctx.Done()
		logger.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting transdoc", "addr", cfg.Server.Addr, "model", cfg.GenAI.Model)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
