package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dalfonso89/currency-converter/internal/models"
	"github.com/dalfonso89/currency-converter/internal/testutils"
	"github.com/dalfonso89/currency-converter/internal/webapp"
)

func newFakeProxy(t *testing.T, failing bool) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, body interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
	mux.HandleFunc("/api/symbols", func(w http.ResponseWriter, r *http.Request) {
		if failing {
			writeJSON(w, http.StatusServiceUnavailable, models.ErrorPayload{Title: "Unable to communicate with server", Message: "timeout"})
			return
		}
		writeJSON(w, http.StatusOK, testutils.MockSymbolSet())
	})
	mux.HandleFunc("/api/rates", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testutils.MockRateSet())
	})
	mux.HandleFunc("/api/convert", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.ConversionResult{Rate: 0.89})
	})
	mux.HandleFunc("/api/historical", func(w http.ResponseWriter, r *http.Request) {
		var request models.HistoricalRequest
		json.NewDecoder(r.Body).Decode(&request)
		rateSet := testutils.MockRateSet()
		rateSet.Date = request.Date
		writeJSON(w, http.StatusOK, rateSet)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	rootCmd := newRootCommand()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVisit(t *testing.T) {
	proxy := newFakeProxy(t, false)

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{name: "default path", args: []string{"visit"}, contains: "Currency Rates"},
		{name: "exchange", args: []string{"visit", "/exchange"}, contains: "British Pound Sterling"},
		{name: "unknown", args: []string{"visit", "/missing"}, contains: "Error 404 - Page NOT Found!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append(tt.args, "--api", proxy.URL+"/api")...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.contains)
		})
	}
}

func TestVisit_Document(t *testing.T) {
	proxy := newFakeProxy(t, false)

	out, err := execute(t, "visit", "/historical", "--document", "--api", proxy.URL+"/api")

	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `<a class="item active" href="/historical">`)
}

func TestConvert(t *testing.T) {
	proxy := newFakeProxy(t, false)

	out, err := execute(t, "convert", "--from", "USD", "--to", "EUR", "--amount", "10", "--api", proxy.URL+"/api")

	require.NoError(t, err)
	assert.Contains(t, out, "EUR 8.9")
}

func TestConvert_InvalidAmount(t *testing.T) {
	proxy := newFakeProxy(t, false)

	out, err := execute(t, "convert", "--from", "USD", "--to", "EUR", "--amount", "lots", "--api", proxy.URL+"/api")

	require.NoError(t, err)
	assert.Contains(t, out, "ui error message")
	assert.NotContains(t, out, "EUR 0")
}

func TestConvert_PageFailed(t *testing.T) {
	proxy := newFakeProxy(t, true)

	_, err := execute(t, "convert", "--from", "USD", "--to", "EUR", "--amount", "1", "--api", proxy.URL+"/api")

	assert.ErrorIs(t, err, webapp.ErrNoForm)
}

func TestHistorical(t *testing.T) {
	proxy := newFakeProxy(t, false)

	out, err := execute(t, "historical", "--date", "2016-02-29", "--api", proxy.URL+"/api")

	require.NoError(t, err)
	assert.Contains(t, out, "2016-02-29")
	assert.Contains(t, out, "<td>GBP</td>")
}
