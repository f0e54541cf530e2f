package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalfonso89/currency-converter/internal/config"
	"github.com/dalfonso89/currency-converter/internal/logger"
	"github.com/dalfonso89/currency-converter/internal/models"
)

// ConverterProvider implements ConversionProvider against the free currency
// converter API (compact "FROM_TO" pairs).
type ConverterProvider struct {
	configuration config.UpstreamProvider
	logger        *logger.Logger
	httpClient    *http.Client
}

// NewConverterProvider creates a new converter provider
func NewConverterProvider(configuration config.UpstreamProvider, logger *logger.Logger) *ConverterProvider {
	return &ConverterProvider{
		configuration: configuration,
		logger:        logger,
		httpClient:    newUpstreamClient(configuration.Timeout),
	}
}

// GetName returns the provider name
func (provider *ConverterProvider) GetName() string {
	return provider.configuration.Name
}

// Rate fetches the factor that converts one unit of from into to
func (provider *ConverterProvider) Rate(ctx context.Context, from, to string) Result[models.ConversionResult] {
	pair := pairKey(from, to)

	var rates map[string]float64
	if failure := getJSON(ctx, provider.httpClient, provider.buildURL(pair), &rates); failure != nil {
		return Failed[models.ConversionResult](failure)
	}

	rate, ok := rates[pair]
	if !ok {
		return Failed[models.ConversionResult](internalError(fmt.Sprintf("no rate returned for %s", pair), nil))
	}
	return Succeeded(models.ConversionResult{Rate: rate})
}

func (provider *ConverterProvider) buildURL(pair string) string {
	query := url.Values{}
	query.Set("q", pair)
	query.Set("compact", "ultra")
	if provider.configuration.APIKey != "" {
		query.Set("apiKey", provider.configuration.APIKey)
	}
	return strings.TrimRight(provider.configuration.BaseURL, "/") + "/api/v7/convert?" + query.Encode()
}

func pairKey(from, to string) string {
	return from + "_" + to
}
