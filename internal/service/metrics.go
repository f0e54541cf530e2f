package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upstreamCalls = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "currency_proxy",
	Name:      "upstream_calls_total",
	Help:      "Upstream provider calls by outcome.",
}, []string{"provider", "outcome"})
