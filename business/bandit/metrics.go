package bandit

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BanditChoicesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_category_choices_total",
			Help: "Count of Thompson Sampling category choices by winning category.",
		},
		[]string{"category"},
	)

	BanditFeedbackEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bandit_feedback_events_total",
			Help: "Count of posterior updates by category and reaction.",
		},
		[]string{"category", "reaction"},
	)

	BanditWinningSample = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bandit_winning_sample",
			Help:    "Beta draw of the winning category per choice.",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(BanditChoicesTotal, BanditFeedbackEventsTotal, BanditWinningSample)
}
