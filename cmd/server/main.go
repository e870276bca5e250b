// Redaktor text analysis server entry point.
//
// Initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redaktor-ai/textserver/internal/ai"
	"github.com/redaktor-ai/textserver/internal/config"
	"github.com/redaktor-ai/textserver/internal/handler"
	"github.com/redaktor-ai/textserver/internal/logger"
	"github.com/redaktor-ai/textserver/internal/observability"
	"github.com/redaktor-ai/textserver/internal/service"
	"github.com/redaktor-ai/textserver/internal/store"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	isDev := os.Getenv("GIN_MODE") != "release"

	zapLogger, err := logger.New(isDev)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting text analysis server",
		zap.Bool("development", isDev),
	)

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	zapLogger.Info("configuration loaded",
		zap.String("port", cfg.Server.Port),
		zap.Strings("models", cfg.AI.Models),
		zap.Bool("mock_mode", cfg.AI.MockMode),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	metrics := observability.New()

	adminStore, err := store.New(cfg.Store.DataFile, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to open admin store", zap.Error(err))
	}

	var aiClient ai.Client
	if cfg.AI.MockMode {
		zapLogger.Warn("running in mock mode - generative responses are simulated")
		aiClient = ai.NewMockClient()
	} else {
		aiClient = ai.NewGeminiClient(&cfg.AI, metrics, zapLogger)
	}

	analyzerSvc := service.NewAnalyzer(aiClient, adminStore, cfg, zapLogger)
	analyzerSvc.SetObserver(metrics)

	analyzeHandler := handler.NewAnalyzeHandler(analyzerSvc, zapLogger)
	adminHandler := handler.NewAdminHandler(adminStore, zapLogger)
	healthHandler := handler.NewHealthHandler(zapLogger)
	readyHandler := handler.NewReadyHandler(aiClient, zapLogger)

	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(handler.RecoveryMiddleware(zapLogger))
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.LoggingMiddleware(zapLogger))
	router.Use(handler.CORSMiddleware())
	router.Use(metrics.Middleware())

	router.GET("/health", healthHandler.Handle)
	router.GET("/ready", readyHandler.Handle)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(handler.NewRateLimiter(cfg.RateLimit).Middleware())
	}
	{
		v1.POST("/analyze", analyzeHandler.Handle)
		v1.POST("/summarize", analyzeHandler.HandleSummarize)
		v1.POST("/suggestions", analyzeHandler.HandleSuggestions)
		v1.POST("/keywords", analyzeHandler.HandleKeywords)

		v1.GET("/admin/data", adminHandler.HandleGet)
		v1.PUT("/admin/data", adminHandler.HandlePut)
		v1.POST("/admin/prompts/:id/activate", adminHandler.HandleActivatePrompt)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server...")

	// Give the server 10 seconds to finish processing
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server stopped")
}
