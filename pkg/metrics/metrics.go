package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of HTTP handlers by method, route template and status code
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Latency of upstream news page fetches by outcome
	NewsFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "news_fetch_duration_seconds",
		Help:    "Latency of upstream news page fetches",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"outcome"})

	// 0 closed, 1 half-open, 2 open
	NewsBreakerState = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "news_circuit_breaker_state",
		Help: "State of the news client circuit breaker",
	})
)

var once sync.Once

func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestDuration,
			NewsFetchDuration,
			NewsBreakerState,
		)
	})
}
