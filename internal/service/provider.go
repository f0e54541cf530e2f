package service

import (
	"context"

	"github.com/dalfonso89/currency-converter/internal/config"
	"github.com/dalfonso89/currency-converter/internal/logger"
	"github.com/dalfonso89/currency-converter/internal/models"
)

// RatesProvider supplies latest rates, currency symbols and historical rates
type RatesProvider interface {
	GetName() string
	Latest(ctx context.Context) Result[models.RateSet]
	Symbols(ctx context.Context) Result[models.SymbolSet]
	Historical(ctx context.Context, date string) Result[models.RateSet]
}

// ConversionProvider supplies the factor between two currencies
type ConversionProvider interface {
	GetName() string
	Rate(ctx context.Context, from, to string) Result[models.ConversionResult]
}

// ProviderFactory creates provider instances
type ProviderFactory struct {
	config *config.Config
	logger *logger.Logger
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(config *config.Config, logger *logger.Logger) *ProviderFactory {
	return &ProviderFactory{
		config: config,
		logger: logger,
	}
}

func (pf *ProviderFactory) CreateRatesProvider() RatesProvider {
	return NewFixerProvider(pf.config.Fixer, pf.logger)
}

func (pf *ProviderFactory) CreateConversionProvider() ConversionProvider {
	return NewConverterProvider(pf.config.Converter, pf.logger)
}
