package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/legal-lens/api/internal/analyzer"
	"github.com/legal-lens/api/internal/chat"
	"github.com/legal-lens/api/internal/config"
	"github.com/legal-lens/api/internal/handlers"
	"github.com/legal-lens/api/internal/llm"
	"github.com/legal-lens/api/internal/router"
	"github.com/legal-lens/api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)

	if cfg.GroqAPIKey == "" {
		logger.Warn("GROQ_API_KEY is not set; analysis and chat endpoints will return errors")
	}

	llmClient := llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqBaseURL, logger)
	docAnalyzer := analyzer.New(llmClient, logger)
	chatService := chat.New(llmClient, logger)

	handler := handlers.New(docAnalyzer, chatService, cfg.MaxFileSize, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.New(handler, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "model", cfg.GroqModel)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
