package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	handshakes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopify_auth_handshakes_total",
		Help: "Install handshake requests by step (begin, callback) and outcome",
	}, []string{"step", "outcome"})

	exchangeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopify_auth_exchange_duration_seconds",
		Help:    "Latency of the code for access token exchange with Shopify",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
	})
)

const (
	stepBegin    = "begin"
	stepCallback = "callback"

	outcomeOK = "ok"
)
