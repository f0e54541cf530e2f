package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// UpstreamProvider describes one upstream exchange-rate API
type UpstreamProvider struct {
	Name    string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Config holds all configuration for the application
type Config struct {
	Port      string
	LogLevel  string
	PublicDir string

	// Upstream providers
	Fixer     UpstreamProvider
	Converter UpstreamProvider

	// Single-page client
	ClientAPIBaseURL string
	ClientTimeout    time.Duration

	ShutdownTimeout time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	port := getEnv("PORT", "3000")
	upstreamTimeout := time.Duration(atoiOr(getEnv("UPSTREAM_TIMEOUT_SECONDS", "10"), 10)) * time.Second

	return &Config{
		Port:      port,
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		PublicDir: getEnv("PUBLIC_DIR", "public"),

		Fixer: UpstreamProvider{
			Name:    "fixer",
			BaseURL: getEnv("FIXER_BASE_URL", "http://data.fixer.io/api"),
			APIKey:  getEnv("FIXER_API_KEY", ""),
			Timeout: upstreamTimeout,
		},
		Converter: UpstreamProvider{
			Name:    "currconv",
			BaseURL: getEnv("CONVERTER_BASE_URL", "https://free.currconv.com"),
			APIKey:  getEnv("CONVERTER_API_KEY", ""),
			Timeout: upstreamTimeout,
		},

		ClientAPIBaseURL: getEnv("CLIENT_API_BASE_URL", "http://localhost:"+port+"/api"),
		ClientTimeout:    time.Duration(atoiOr(getEnv("CLIENT_TIMEOUT_SECONDS", "5"), 5)) * time.Second,

		ShutdownTimeout: time.Duration(atoiOr(getEnv("SHUTDOWN_TIMEOUT_SECONDS", "30"), 30)) * time.Second,
	}, nil
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func atoiOr(s string, fallback int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return fallback
	}
	return i
}
