package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/dalfonso89/currency-converter/internal/logger"
	"github.com/dalfonso89/currency-converter/internal/models"
)

// ExchangeService forwards the proxy's four operations to the upstream providers.
// Identical calls that are in flight at the same time share one upstream request.
type ExchangeService struct {
	logger             *logger.Logger
	ratesProvider      RatesProvider
	conversionProvider ConversionProvider

	singleFlightGroup singleflight.Group
}

func NewExchangeService(ratesProvider RatesProvider, conversionProvider ConversionProvider, logger *logger.Logger) *ExchangeService {
	return &ExchangeService{
		logger:             logger,
		ratesProvider:      ratesProvider,
		conversionProvider: conversionProvider,
	}
}

// NewExchangeServiceFromFactory wires the configured upstream providers
func NewExchangeServiceFromFactory(factory *ProviderFactory, logger *logger.Logger) *ExchangeService {
	return NewExchangeService(factory.CreateRatesProvider(), factory.CreateConversionProvider(), logger)
}

// LatestRates returns the latest RateSet
func (exchangeService *ExchangeService) LatestRates(requestContext context.Context) Result[models.RateSet] {
	return coalesce(exchangeService, requestContext, exchangeService.ratesProvider.GetName(), "latest", func(ctx context.Context) Result[models.RateSet] {
		return exchangeService.ratesProvider.Latest(ctx)
	})
}

// Symbols returns the SymbolSet
func (exchangeService *ExchangeService) Symbols(requestContext context.Context) Result[models.SymbolSet] {
	return coalesce(exchangeService, requestContext, exchangeService.ratesProvider.GetName(), "symbols", func(ctx context.Context) Result[models.SymbolSet] {
		return exchangeService.ratesProvider.Symbols(ctx)
	})
}

// Convert returns the rate between request.From and request.To.
// Codes are not checked against the symbol list.
func (exchangeService *ExchangeService) Convert(requestContext context.Context, request models.ConversionRequest) Result[models.ConversionResult] {
	from, to := strings.TrimSpace(request.From), strings.TrimSpace(request.To)
	if from == "" || to == "" {
		return Failed[models.ConversionResult](internalError("from and to currencies are required", nil))
	}

	return coalesce(exchangeService, requestContext, exchangeService.conversionProvider.GetName(), "convert:"+pairKey(from, to), func(ctx context.Context) Result[models.ConversionResult] {
		return exchangeService.conversionProvider.Rate(ctx, from, to)
	})
}

// Historical returns the RateSet for request.Date. The date format is not checked.
func (exchangeService *ExchangeService) Historical(requestContext context.Context, request models.HistoricalRequest) Result[models.RateSet] {
	date := strings.TrimSpace(request.Date)
	if date == "" {
		return Failed[models.RateSet](internalError("date is required", nil))
	}

	return coalesce(exchangeService, requestContext, exchangeService.ratesProvider.GetName(), "historical:"+date, func(ctx context.Context) Result[models.RateSet] {
		return exchangeService.ratesProvider.Historical(ctx, date)
	})
}

func coalesce[T any](exchangeService *ExchangeService, requestContext context.Context, provider, key string, call func(context.Context) Result[T]) Result[T] {
	// the shared call outlives whichever caller happened to start it
	sharedContext := context.WithoutCancel(requestContext)

	value, _, shared := exchangeService.singleFlightGroup.Do(key, func() (interface{}, error) {
		exchangeService.logger.Debugf("Calling upstream %s for %s", provider, key)
		result := call(sharedContext)
		upstreamCalls.WithLabelValues(provider, result.Type().String()).Inc()
		return result, nil
	})

	result := value.(Result[T])
	if result.Failure != nil && !shared {
		exchangeService.logger.WithFields(logrus.Fields{
			"provider": provider,
			"call":     key,
			"outcome":  result.Type().String(),
		}).Warnf("Upstream call failed: %v", result.Failure)
	}
	return result
}
