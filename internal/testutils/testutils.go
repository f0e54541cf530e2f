package testutils

import (
	"io"
	"time"

	"github.com/dalfonso89/currency-converter/internal/config"
	"github.com/dalfonso89/currency-converter/internal/logger"
	"github.com/dalfonso89/currency-converter/internal/models"
)

// MockLogger creates a logger for testing that discards its output
func MockLogger() *logger.Logger {
	return logger.NewWithOutput("debug", io.Discard)
}

// MockConfigWithUpstream points both upstream providers at baseURL
func MockConfigWithUpstream(baseURL string) *config.Config {
	return &config.Config{
		Port:      "3000",
		LogLevel:  "debug",
		PublicDir: "",

		Fixer: config.UpstreamProvider{
			Name:    "fixer",
			BaseURL: baseURL + "/fixer",
			APIKey:  "test-fixer-key",
			Timeout: 2 * time.Second,
		},
		Converter: config.UpstreamProvider{
			Name:    "currconv",
			BaseURL: baseURL + "/currconv",
			APIKey:  "test-converter-key",
			Timeout: 2 * time.Second,
		},

		ClientAPIBaseURL: "http://localhost:3000/api",
		ClientTimeout:    5 * time.Second,
		ShutdownTimeout:  time.Second,
	}
}

// MockRateSet creates a mock rate set for testing
func MockRateSet() models.RateSet {
	return models.RateSet{
		Base: "EUR",
		Date: "2020-01-01",
		Rates: map[string]float64{
			"USD": 1.12,
			"GBP": 0.85,
			"JPY": 121.9,
		},
	}
}

// MockSymbolSet creates a mock symbol set for testing
func MockSymbolSet() models.SymbolSet {
	return models.SymbolSet{
		Symbols: map[string]string{
			"EUR": "Euro",
			"GBP": "British Pound Sterling",
			"USD": "United States Dollar",
		},
	}
}
