package models

import "time"

// RateSet is a base currency, the date the rates apply to and the per-currency rates
type RateSet struct {
	Base  string             `json:"base"`
	Date  string             `json:"date,omitempty"`
	Rates map[string]float64 `json:"rates"`
}

// SymbolSet maps currency codes to display names
type SymbolSet struct {
	Symbols map[string]string `json:"symbols"`
}

type ConversionRequest struct {
	From string `json:"from" form:"from" binding:"required"`
	To   string `json:"to" form:"to" binding:"required"`
}

type ConversionResult struct {
	Rate float64 `json:"rate"`
}

type HistoricalRequest struct {
	Date string `json:"date" form:"date" binding:"required"`
}

// ErrorPayload is the normalized error body returned by the proxy.
// It doubles as an error value on the client side.
type ErrorPayload struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (e *ErrorPayload) Error() string {
	if e.Message == "" {
		return e.Title
	}
	return e.Title + ": " + e.Message
}

type HealthCheck struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}
