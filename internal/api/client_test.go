package api

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/currency-converter/internal/models"
	"github.com/dalfonso89/currency-converter/internal/testutils"
	"github.com/dalfonso89/currency-converter/internal/webapp"
)

// staticBackend answers the client from fixed data without a proxy round trip
type staticBackend struct{}

func (staticBackend) Rates(ctx context.Context) (models.RateSet, error) {
	return testutils.MockRateSet(), nil
}

func (staticBackend) Symbols(ctx context.Context) (models.SymbolSet, error) {
	return testutils.MockSymbolSet(), nil
}

func (staticBackend) Convert(ctx context.Context, request models.ConversionRequest) (models.ConversionResult, error) {
	if request.From == "GBP" {
		return models.ConversionResult{}, &models.ErrorPayload{Title: titleRejected, Message: "Request failed with status code 400"}
	}
	return models.ConversionResult{Rate: 0.89}, nil
}

func (staticBackend) Historical(ctx context.Context, request models.HistoricalRequest) (models.RateSet, error) {
	rateSet := testutils.MockRateSet()
	rateSet.Date = request.Date
	return rateSet, nil
}

func newStaticClient() *webapp.Client {
	return webapp.NewClient(staticBackend{}, testutils.MockLogger())
}

func TestServeClient_Pages(t *testing.T) {
	router := NewHandlers(HandlerConfig{Logger: testutils.MockLogger(), Client: newStaticClient()}).SetupRoutes()

	tests := []struct {
		name     string
		path     string
		contains []string
	}{
		{
			name:     "rates",
			path:     "/",
			contains: []string{"Currency Rates", "<td>JPY</td>", "2020-01-01", `<a class="item active" href="/">`},
		},
		{
			name:     "exchange",
			path:     "/exchange",
			contains: []string{`action="/exchange"`, `<option value="GBP">`, `<a class="item active" href="/exchange">`},
		},
		{
			name:     "historical",
			path:     "/historical",
			contains: []string{`type="date"`, `id="historical-table"`, `<a class="item active" href="/historical">`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodGet, tt.path, "", "")

			require.Equal(t, http.StatusOK, w.Code)
			for _, fragment := range tt.contains {
				assert.Contains(t, w.Body.String(), fragment)
			}
		})
	}
}

func TestServeClient_ConversionPost(t *testing.T) {
	router := NewHandlers(HandlerConfig{Logger: testutils.MockLogger(), Client: newStaticClient()}).SetupRoutes()

	tests := []struct {
		name     string
		form     url.Values
		contains string
	}{
		{
			name:     "valid form",
			form:     url.Values{"from": {"USD"}, "to": {"EUR"}, "amount": {"10"}},
			contains: "EUR 8.9",
		},
		{
			name:     "from kept selected",
			form:     url.Values{"from": {"USD"}, "to": {"EUR"}, "amount": {"10"}},
			contains: `<option value="USD" selected>`,
		},
		{
			name:     "to kept selected",
			form:     url.Values{"from": {"USD"}, "to": {"EUR"}, "amount": {"10"}},
			contains: `<option value="EUR" selected>`,
		},
		{
			name:     "amount refilled",
			form:     url.Values{"from": {"USD"}, "to": {"EUR"}, "amount": {"10"}},
			contains: `value="10"`,
		},
		{
			name:     "amount not numeric",
			form:     url.Values{"from": {"USD"}, "to": {"EUR"}, "amount": {"ten"}},
			contains: "ui error message",
		},
		{
			name:     "server error",
			form:     url.Values{"from": {"GBP"}, "to": {"EUR"}, "amount": {"1"}},
			contains: "Server responded with an error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, http.MethodPost, "/exchange", "application/x-www-form-urlencoded", tt.form.Encode())

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestServeClient_HistoricalPost(t *testing.T) {
	router := NewHandlers(HandlerConfig{Logger: testutils.MockLogger(), Client: newStaticClient()}).SetupRoutes()

	form := url.Values{"date": {"2019-05-04"}}.Encode()
	w := serve(router, http.MethodPost, "/historical", "application/x-www-form-urlencoded", form)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2019-05-04")
	assert.Contains(t, w.Body.String(), "<td>USD</td>")
	assert.Contains(t, w.Body.String(), `type="date"`)
}

func TestServeClient_PostWithoutForm(t *testing.T) {
	router := NewHandlers(HandlerConfig{Logger: testutils.MockLogger(), Client: newStaticClient()}).SetupRoutes()

	w := serve(router, http.MethodPost, "/", "application/x-www-form-urlencoded", "x=1")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Currency Rates")
}
