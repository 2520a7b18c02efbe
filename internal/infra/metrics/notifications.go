package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Listing notifications by result (sent/failed/duplicate).",
		},
		[]string{"result"},
	)

	listingsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_processed_total",
			Help: "Listings seen by the dispatcher by outcome (eligible/outside_window).",
		},
		[]string{"outcome"},
	)

	preferenceSaves = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "preference_saves_total",
			Help: "Completed preference setup flows.",
		},
	)

	dispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_duration_seconds",
			Help:    "Duration of one dispatch pass over a listing batch.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	register(notificationsTotal, listingsProcessed, preferenceSaves, dispatchDuration)
}

func IncNotification(result string) {
	notificationsTotal.WithLabelValues(result).Inc()
}

func IncListingProcessed(outcome string) {
	listingsProcessed.WithLabelValues(outcome).Inc()
}

func IncPreferenceSave() {
	preferenceSaves.Inc()
}

// StartDispatchTimer returns a func that observes the elapsed time when called.
func StartDispatchTimer() func() {
	t := prometheus.NewTimer(dispatchDuration)
	return func() { t.ObserveDuration() }
}
