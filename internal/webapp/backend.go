package webapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dalfonso89/currency-converter/internal/models"
)

const (
	titleUnreachable = "Unable to communicate with server"
	titleUnexpected  = "An unexpected error occurred"
)

// Backend is the proxy API as seen by the client. Failures are *models.ErrorPayload.
type Backend interface {
	Rates(ctx context.Context) (models.RateSet, error)
	Symbols(ctx context.Context) (models.SymbolSet, error)
	Convert(ctx context.Context, request models.ConversionRequest) (models.ConversionResult, error)
	Historical(ctx context.Context, request models.HistoricalRequest) (models.RateSet, error)
}

// APIClient talks to the proxy over HTTP
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the proxy rooted at baseURL (e.g. http://localhost:3000/api)
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (client *APIClient) Rates(ctx context.Context) (models.RateSet, error) {
	var rateSet models.RateSet
	err := client.do(ctx, http.MethodGet, "/rates", nil, &rateSet)
	return rateSet, err
}

func (client *APIClient) Symbols(ctx context.Context) (models.SymbolSet, error) {
	var symbolSet models.SymbolSet
	err := client.do(ctx, http.MethodGet, "/symbols", nil, &symbolSet)
	return symbolSet, err
}

func (client *APIClient) Convert(ctx context.Context, request models.ConversionRequest) (models.ConversionResult, error) {
	var result models.ConversionResult
	err := client.do(ctx, http.MethodPost, "/convert", request, &result)
	return result, err
}

func (client *APIClient) Historical(ctx context.Context, request models.HistoricalRequest) (models.RateSet, error) {
	var rateSet models.RateSet
	err := client.do(ctx, http.MethodPost, "/historical", request, &rateSet)
	return rateSet, err
}

func (client *APIClient) do(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return &models.ErrorPayload{Title: titleUnexpected, Message: err.Error()}
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+endpoint, body)
	if err != nil {
		return &models.ErrorPayload{Title: titleUnexpected, Message: err.Error()}
	}
	request.Header.Set("Accept", "application/json")
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return &models.ErrorPayload{Title: titleUnreachable, Message: err.Error()}
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var payload models.ErrorPayload
		if err := json.NewDecoder(response.Body).Decode(&payload); err != nil || payload.Title == "" {
			return &models.ErrorPayload{
				Title:   titleUnexpected,
				Message: fmt.Sprintf("Request failed with status code %d", response.StatusCode),
			}
		}
		return &payload
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return &models.ErrorPayload{Title: titleUnexpected, Message: err.Error()}
	}
	return nil
}

// asErrorPayload extracts the payload to display for err
func asErrorPayload(err error) *models.ErrorPayload {
	var payload *models.ErrorPayload
	if errors.As(err, &payload) {
		return payload
	}
	return &models.ErrorPayload{Title: titleUnexpected, Message: err.Error()}
}
