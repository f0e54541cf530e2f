package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalfonso89/currency-converter/internal/config"
	"github.com/dalfonso89/currency-converter/internal/logger"
	"github.com/dalfonso89/currency-converter/internal/models"
)

// FixerProvider implements RatesProvider against the Fixer API
type FixerProvider struct {
	configuration config.UpstreamProvider
	logger        *logger.Logger
	httpClient    *http.Client
}

// fixerEnvelope covers every Fixer response shape used here
type fixerEnvelope struct {
	Success *bool `json:"success"`
	Error   *struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
	Base    string             `json:"base"`
	Date    string             `json:"date"`
	Rates   map[string]float64 `json:"rates"`
	Symbols map[string]string  `json:"symbols"`
}

// NewFixerProvider creates a new Fixer provider
func NewFixerProvider(configuration config.UpstreamProvider, logger *logger.Logger) *FixerProvider {
	return &FixerProvider{
		configuration: configuration,
		logger:        logger,
		httpClient:    newUpstreamClient(configuration.Timeout),
	}
}

// GetName returns the provider name
func (provider *FixerProvider) GetName() string {
	return provider.configuration.Name
}

// Latest fetches the latest rates
func (provider *FixerProvider) Latest(ctx context.Context) Result[models.RateSet] {
	envelope, failure := provider.fetch(ctx, "latest")
	if failure != nil {
		return Failed[models.RateSet](failure)
	}
	return Succeeded(models.RateSet{Base: envelope.Base, Date: envelope.Date, Rates: envelope.Rates})
}

// Symbols fetches the supported currency symbols
func (provider *FixerProvider) Symbols(ctx context.Context) Result[models.SymbolSet] {
	envelope, failure := provider.fetch(ctx, "symbols")
	if failure != nil {
		return Failed[models.SymbolSet](failure)
	}
	return Succeeded(models.SymbolSet{Symbols: envelope.Symbols})
}

// Historical fetches the rates published for date (YYYY-MM-DD, passed through unchecked)
func (provider *FixerProvider) Historical(ctx context.Context, date string) Result[models.RateSet] {
	envelope, failure := provider.fetch(ctx, url.PathEscape(date))
	if failure != nil {
		return Failed[models.RateSet](failure)
	}
	if envelope.Date == "" {
		envelope.Date = date
	}
	return Succeeded(models.RateSet{Base: envelope.Base, Date: envelope.Date, Rates: envelope.Rates})
}

func (provider *FixerProvider) fetch(ctx context.Context, endpoint string) (fixerEnvelope, *ServiceError) {
	var envelope fixerEnvelope
	if failure := getJSON(ctx, provider.httpClient, provider.buildURL(endpoint), &envelope); failure != nil {
		return envelope, failure
	}

	// Fixer reports most failures with a 200 status and success=false
	if envelope.Success != nil && !*envelope.Success {
		message := "Request rejected by provider"
		if envelope.Error != nil {
			switch {
			case envelope.Error.Info != "":
				message = envelope.Error.Info
			case envelope.Error.Type != "":
				message = envelope.Error.Type
			}
		}
		return envelope, rejected(message)
	}
	return envelope, nil
}

// buildURL constructs the URL for an endpoint, adding the access key when configured
func (provider *FixerProvider) buildURL(endpoint string) string {
	baseURL := strings.TrimRight(provider.configuration.BaseURL, "/")
	query := url.Values{}
	if provider.configuration.APIKey != "" {
		query.Set("access_key", provider.configuration.APIKey)
	}
	if len(query) == 0 {
		return baseURL + "/" + endpoint
	}
	return baseURL + "/" + endpoint + "?" + query.Encode()
}
