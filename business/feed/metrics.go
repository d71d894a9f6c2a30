package feed

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FeedPullsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_pulls_total",
			Help: "Count of feed assemblies by mode.",
		},
		[]string{"mode"},
	)

	FeedFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fallbacks_total",
			Help: "Count of assemblies that fell back to the mixed fetch, by mode.",
		},
		[]string{"mode"},
	)

	ForcedDiversifyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_forced_diversify_total",
			Help: "Count of focused requests served diversified because of cold start.",
		},
	)

	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_upstream_errors_total",
			Help: "Count of failed content source page fetches by category.",
		},
		[]string{"category"},
	)
)

func init() {
	prometheus.MustRegister(
		FeedPullsTotal,
		FeedFallbacksTotal,
		ForcedDiversifyTotal,
		UpstreamErrorsTotal,
	)
}
