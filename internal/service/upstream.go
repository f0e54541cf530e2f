package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const maxBodyBytes = 1 << 20

func newUpstreamClient(timeout time.Duration) *http.Client {
	httpTransport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: httpTransport}
}

// getJSON performs a GET against an upstream API and decodes the body into out.
// Failures come back already classified.
func getJSON(ctx context.Context, httpClient *http.Client, endpoint string, out interface{}) *ServiceError {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return internalError("failed to create request", errors.New(transportMessage(err)))
	}
	request.Header.Set("Accept", "application/json")

	response, err := httpClient.Do(request)
	if err != nil {
		return unreachable(transportMessage(err), nil)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return internalError("failed to read response body", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return rejected(fmt.Sprintf("Request failed with status code %d", response.StatusCode))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return internalError("failed to parse response", err)
	}
	return nil
}

// transportMessage drops the request URL from a client error. Upstream URLs
// carry the API key in their query string.
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
