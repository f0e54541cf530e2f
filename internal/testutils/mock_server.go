package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MockUpstreamServer serves Fixer-style and converter-style responses.
// Fixer lives under /fixer, the converter under /currconv.
type MockUpstreamServer struct {
	server *httptest.Server

	mu           sync.RWMutex
	status       int
	fixerFailure string
	delay        time.Duration
	conversions  map[string]float64

	requests int64
}

// NewMockUpstreamServer creates a new mock upstream server
func NewMockUpstreamServer() *MockUpstreamServer {
	mock := &MockUpstreamServer{
		status: http.StatusOK,
		conversions: map[string]float64{
			"USD_EUR": 0.89,
			"EUR_USD": 1.12,
			"USD_KES": 103.5,
		},
	}
	mock.server = httptest.NewServer(http.HandlerFunc(mock.handler))
	return mock
}

// RespondWithStatus makes every subsequent response use status
func (m *MockUpstreamServer) RespondWithStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
}

// RejectFixerWith makes Fixer answer 200 with success=false and info as the reason
func (m *MockUpstreamServer) RejectFixerWith(info string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixerFailure = info
}

// Delay holds every response for d
func (m *MockUpstreamServer) Delay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// SetConversion sets the rate returned for a FROM_TO pair
func (m *MockUpstreamServer) SetConversion(pair string, rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversions[pair] = rate
}

// Requests returns how many requests the server has seen
func (m *MockUpstreamServer) Requests() int64 {
	return atomic.LoadInt64(&m.requests)
}

func (m *MockUpstreamServer) handler(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&m.requests, 1)

	m.mu.RLock()
	status, fixerFailure, delay := m.status, m.fixerFailure, m.delay
	m.mu.RUnlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if status != http.StatusOK {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{"status": status, "error": "mock failure"})
		return
	}

	switch {
	case strings.HasPrefix(r.URL.Path, "/fixer/"):
		m.serveFixer(w, r, strings.TrimPrefix(r.URL.Path, "/fixer/"), fixerFailure)
	case r.URL.Path == "/currconv/api/v7/convert":
		m.serveConversion(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}
}

func (m *MockUpstreamServer) serveFixer(w http.ResponseWriter, r *http.Request, endpoint, failure string) {
	if failure != "" {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code": 101,
				"type": "invalid_access_key",
				"info": failure,
			},
		})
		return
	}

	rates := map[string]float64{
		"USD": 1.12,
		"GBP": 0.85,
		"JPY": 121.9,
		"KES": 113.4,
	}

	switch endpoint {
	case "symbols":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"symbols": map[string]string{
				"EUR": "Euro",
				"GBP": "British Pound Sterling",
				"KES": "Kenyan Shilling",
				"USD": "United States Dollar",
			},
		})
	case "latest":
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   true,
			"timestamp": time.Now().Unix(),
			"base":      "EUR",
			"date":      time.Now().UTC().Format("2006-01-02"),
			"rates":     rates,
		})
	default:
		// historical: /fixer/YYYY-MM-DD
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"historical": true,
			"base":       "EUR",
			"date":       endpoint,
			"rates":      rates,
		})
	}
}

func (m *MockUpstreamServer) serveConversion(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("q")

	m.mu.RLock()
	rate, ok := m.conversions[pair]
	m.mu.RUnlock()

	if !ok {
		// the real API answers unknown pairs with an empty object
		w.Write([]byte("{}"))
		return
	}
	json.NewEncoder(w).Encode(map[string]float64{pair: rate})
}

// URL returns the mock server URL
func (m *MockUpstreamServer) URL() string {
	return m.server.URL
}

// Close closes the mock server
func (m *MockUpstreamServer) Close() {
	m.server.Close()
}
