package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/dalfonso89/currency-converter/internal/api"
	"github.com/dalfonso89/currency-converter/internal/config"
	"github.com/dalfonso89/currency-converter/internal/logger"
	"github.com/dalfonso89/currency-converter/internal/platform"
	"github.com/dalfonso89/currency-converter/internal/service"
	"github.com/dalfonso89/currency-converter/internal/webapp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize services
	providerFactory := service.NewProviderFactory(cfg, logger)
	exchangeService := service.NewExchangeServiceFromFactory(providerFactory, logger)

	// The client renders pages through the proxy's own API
	client := webapp.NewClient(webapp.NewAPIClient(cfg.ClientAPIBaseURL, cfg.ClientTimeout), logger)

	// Initialize HTTP handlers
	handlers := api.NewHandlers(api.HandlerConfig{
		Logger:          logger,
		ExchangeService: exchangeService,
		Client:          client,
		PublicDir:       cfg.PublicDir,
	})

	// Setup Gin router
	router := handlers.SetupRoutes()

	// Setup HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Listening on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Create a shutdown context that works across platforms
	shutdownCtx, stop := platform.NewShutdownContext(context.Background())
	defer stop()
	<-shutdownCtx.Done()

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
