package webapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/currency-converter/internal/models"
)

func TestAPIClient_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/rates":
			assert.Equal(t, http.MethodGet, r.Method)
			w.Write([]byte(`{"base":"EUR","date":"2020-01-01","rates":{"USD":1.12}}`))
		case "/api/symbols":
			w.Write([]byte(`{"symbols":{"EUR":"Euro"}}`))
		case "/api/convert":
			assert.Equal(t, http.MethodPost, r.Method)
			var request models.ConversionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Equal(t, models.ConversionRequest{From: "USD", To: "EUR"}, request)
			w.Write([]byte(`{"rate":2.5}`))
		case "/api/historical":
			var request models.HistoricalRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
			assert.Equal(t, "2020-01-01", request.Date)
			w.Write([]byte(`{"base":"EUR","rates":{"GBP":0.85}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewAPIClient(server.URL+"/api/", time.Second)
	ctx := context.Background()

	rates, err := client.Rates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.12, rates.Rates["USD"])

	symbols, err := client.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Euro", symbols.Symbols["EUR"])

	conversion, err := client.Convert(ctx, models.ConversionRequest{From: "USD", To: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, 2.5, conversion.Rate)

	historical, err := client.Historical(ctx, models.HistoricalRequest{Date: "2020-01-01"})
	require.NoError(t, err)
	assert.Equal(t, 0.85, historical.Rates["GBP"])
}

func TestAPIClient_ErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"title":"Server responded with an error","message":"Request failed with status code 401"}`))
	}))
	defer server.Close()

	_, err := NewAPIClient(server.URL, time.Second).Rates(context.Background())

	payload := asErrorPayload(err)
	assert.Equal(t, "Server responded with an error", payload.Title)
	assert.Equal(t, "Request failed with status code 401", payload.Message)
}

func TestAPIClient_ErrorWithoutPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer server.Close()

	_, err := NewAPIClient(server.URL, time.Second).Symbols(context.Background())

	payload := asErrorPayload(err)
	assert.Equal(t, titleUnexpected, payload.Title)
	assert.Equal(t, "Request failed with status code 502", payload.Message)
}

func TestAPIClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewAPIClient(server.URL, 50*time.Millisecond).Rates(context.Background())

	assert.Equal(t, titleUnreachable, asErrorPayload(err).Title)
}

func TestAsErrorPayload_PlainError(t *testing.T) {
	payload := asErrorPayload(assert.AnError)
	assert.Equal(t, titleUnexpected, payload.Title)
	assert.Equal(t, assert.AnError.Error(), payload.Message)
}
