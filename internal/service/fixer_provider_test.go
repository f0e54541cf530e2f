package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/currency-converter/internal/config"
	"github.com/dalfonso89/currency-converter/internal/testutils"
)

func newTestFixer(baseURL string) *FixerProvider {
	return NewFixerProvider(config.UpstreamProvider{
		Name:    "fixer",
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: time.Second,
	}, testutils.MockLogger())
}

func TestFixerProvider_buildURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		apiKey   string
		endpoint string
		expected string
	}{
		{"latest with key", "http://data.fixer.io/api", "abc", "latest", "http://data.fixer.io/api/latest?access_key=abc"},
		{"trailing slash", "http://data.fixer.io/api/", "abc", "symbols", "http://data.fixer.io/api/symbols?access_key=abc"},
		{"historical without key", "http://data.fixer.io/api", "", "2020-01-01", "http://data.fixer.io/api/2020-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := NewFixerProvider(config.UpstreamProvider{BaseURL: tt.baseURL, APIKey: tt.apiKey}, testutils.MockLogger())
			assert.Equal(t, tt.expected, provider.buildURL(tt.endpoint))
		})
	}
}

func TestFixerProvider_Latest(t *testing.T) {
	upstream := testutils.NewMockUpstreamServer()
	defer upstream.Close()

	result := newTestFixer(upstream.URL() + "/fixer").Latest(context.Background())

	require.True(t, result.OK(), "unexpected failure: %v", result.Failure)
	assert.Equal(t, "EUR", result.Value.Base)
	assert.NotEmpty(t, result.Value.Date)
	assert.Equal(t, 1.12, result.Value.Rates["USD"])
}

func TestFixerProvider_Symbols(t *testing.T) {
	upstream := testutils.NewMockUpstreamServer()
	defer upstream.Close()

	result := newTestFixer(upstream.URL() + "/fixer").Symbols(context.Background())

	require.True(t, result.OK())
	assert.Equal(t, "Euro", result.Value.Symbols["EUR"])
	assert.Len(t, result.Value.Symbols, 4)
}

func TestFixerProvider_Historical(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2020-01-01", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("access_key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"historical":true,"base":"EUR","rates":{"USD":1.1215}}`))
	}))
	defer server.Close()

	result := newTestFixer(server.URL).Historical(context.Background(), "2020-01-01")

	require.True(t, result.OK())
	assert.Equal(t, "EUR", result.Value.Base)
	assert.Equal(t, "2020-01-01", result.Value.Date, "missing date falls back to the requested one")
	assert.Equal(t, 1.1215, result.Value.Rates["USD"])
}

func TestFixerProvider_Failures(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		expected ErrorType
		message  string
	}{
		{
			name: "error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			expected: ErrorTypeRejected,
			message:  "Request failed with status code 401",
		},
		{
			name: "success false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":false,"error":{"code":101,"type":"missing_access_key","info":"You have not supplied an API Access Key."}}`))
			},
			expected: ErrorTypeRejected,
			message:  "You have not supplied an API Access Key.",
		},
		{
			name: "success false without info",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":false,"error":{"code":104,"type":"usage_limit_reached"}}`))
			},
			expected: ErrorTypeRejected,
			message:  "usage_limit_reached",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
			expected: ErrorTypeInternal,
			message:  "failed to parse response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			result := newTestFixer(server.URL).Latest(context.Background())

			require.False(t, result.OK())
			assert.Equal(t, tt.expected, result.Type())
			assert.Contains(t, result.Failure.Error(), tt.message)
		})
	}
}

func TestFixerProvider_Unreachable(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		baseURL := server.URL
		server.Close()

		result := newTestFixer(baseURL).Symbols(context.Background())

		assert.Equal(t, ErrorTypeUnreachable, result.Type())
	})

	t.Run("timeout", func(t *testing.T) {
		upstream := testutils.NewMockUpstreamServer()
		defer upstream.Close()
		upstream.Delay(2 * time.Second)

		provider := NewFixerProvider(config.UpstreamProvider{
			Name:    "fixer",
			BaseURL: upstream.URL() + "/fixer",
			Timeout: 50 * time.Millisecond,
		}, testutils.MockLogger())

		result := provider.Latest(context.Background())

		assert.Equal(t, ErrorTypeUnreachable, result.Type())
	})
}
