package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/dalfonso89/currency-converter/internal/logger"
	"github.com/dalfonso89/currency-converter/internal/middleware"
	"github.com/dalfonso89/currency-converter/internal/models"
	"github.com/dalfonso89/currency-converter/internal/service"
	"github.com/dalfonso89/currency-converter/internal/webapp"
)

const (
	titleRejected    = "Server responded with an error"
	titleUnreachable = "Unable to communicate with server"
	titleUnexpected  = "An unexpected error occurred"
)

// ExchangeService is the upstream-facing side of the proxy
type ExchangeService interface {
	LatestRates(ctx context.Context) service.Result[models.RateSet]
	Symbols(ctx context.Context) service.Result[models.SymbolSet]
	Convert(ctx context.Context, request models.ConversionRequest) service.Result[models.ConversionResult]
	Historical(ctx context.Context, request models.HistoricalRequest) service.Result[models.RateSet]
}

// HandlerConfig contains all dependencies for the Handlers
type HandlerConfig struct {
	Logger          *logger.Logger
	ExchangeService ExchangeService
	Client          *webapp.Client
	PublicDir       string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	logger          *logger.Logger
	startTime       time.Time
	exchangeService ExchangeService
	client          *webapp.Client
	publicDir       string
}

// NewHandlers creates a new handlers instance with all dependencies
func NewHandlers(config HandlerConfig) *Handlers {
	return &Handlers{
		logger:          config.Logger,
		startTime:       time.Now(),
		exchangeService: config.ExchangeService,
		client:          config.Client,
		publicDir:       config.PublicDir,
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Apply middleware
	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(handlers.corsMiddleware())

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/rates", handlers.GetRates)
		api.GET("/symbols", handlers.GetSymbols)
		api.POST("/convert", handlers.Convert)
		api.POST("/historical", handlers.GetHistorical)
	}

	if handlers.publicDir != "" {
		if info, err := os.Stat(handlers.publicDir); err == nil && info.IsDir() {
			router.Static("/assets", handlers.publicDir)
		}
	}

	// Everything else is the single-page client
	router.NoRoute(handlers.ServeClient)

	return router
}

// HealthCheck handles health check requests
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	healthCheckResponse := models.HealthCheck{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(handlers.startTime).String(),
	}

	context.JSON(http.StatusOK, healthCheckResponse)
}

// GetRates returns the latest rates
func (handlers *Handlers) GetRates(context *gin.Context) {
	respond(handlers, context, handlers.exchangeService.LatestRates(context.Request.Context()))
}

// GetSymbols returns the supported currency symbols
func (handlers *Handlers) GetSymbols(context *gin.Context) {
	respond(handlers, context, handlers.exchangeService.Symbols(context.Request.Context()))
}

// Convert returns the rate between two currencies
func (handlers *Handlers) Convert(context *gin.Context) {
	var conversionRequest models.ConversionRequest
	if bindError := context.ShouldBind(&conversionRequest); bindError != nil {
		handlers.writeServiceError(context, &service.ServiceError{
			Type:    service.ErrorTypeInternal,
			Message: "invalid conversion request",
			Cause:   bindError,
		})
		return
	}

	respond(handlers, context, handlers.exchangeService.Convert(context.Request.Context(), conversionRequest))
}

// GetHistorical returns the rates for a given date
func (handlers *Handlers) GetHistorical(context *gin.Context) {
	var historicalRequest models.HistoricalRequest
	if bindError := context.ShouldBind(&historicalRequest); bindError != nil {
		handlers.writeServiceError(context, &service.ServiceError{
			Type:    service.ErrorTypeInternal,
			Message: "invalid historical request",
			Cause:   bindError,
		})
		return
	}

	respond(handlers, context, handlers.exchangeService.Historical(context.Request.Context(), historicalRequest))
}

func respond[T any](handlers *Handlers, context *gin.Context, result service.Result[T]) {
	if !result.OK() {
		handlers.writeServiceError(context, result.Failure)
		return
	}
	context.JSON(http.StatusOK, result.Value)
}

// writeServiceError maps a failure to its status code and error payload
func (handlers *Handlers) writeServiceError(context *gin.Context, failure *service.ServiceError) {
	statusCode, title := errorStatus(failure.Type)

	handlers.logger.WithFields(logrus.Fields{
		"path":    context.Request.URL.Path,
		"status":  statusCode,
		"outcome": failure.Type.String(),
	}).Warnf("Request failed: %v", failure)

	context.JSON(statusCode, models.ErrorPayload{
		Title:   title,
		Message: failure.Error(),
	})
}

func errorStatus(errorType service.ErrorType) (int, string) {
	switch errorType {
	case service.ErrorTypeRejected:
		return http.StatusForbidden, titleRejected
	case service.ErrorTypeUnreachable:
		return http.StatusServiceUnavailable, titleUnreachable
	default:
		return http.StatusInternalServerError, titleUnexpected
	}
}

// corsMiddleware adds CORS headers using Gin middleware
func (handlers *Handlers) corsMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Header("Access-Control-Allow-Origin", "*")
		context.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		context.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if context.Request.Method == "OPTIONS" {
			context.AbortWithStatus(http.StatusOK)
			return
		}

		context.Next()
	}
}
