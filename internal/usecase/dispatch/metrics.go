package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for dispatch monitoring
var (
	// dispatchTotal tracks dispatch calls per channel
	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatch_total",
			Help: "Total number of dispatch calls",
		},
		[]string{"channel"},
	)

	// deliveryTotal tracks per-recipient delivery outcomes per channel
	deliveryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_delivery_total",
			Help: "Total number of per-recipient delivery attempts",
		},
		[]string{"channel", "outcome"}, // outcome: success|failure
	)

	// dispatchDuration tracks full fan-out duration per channel
	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_dispatch_duration_seconds",
			Help:    "Duration of one full dispatch fan-out in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"channel"},
	)
)

// RecordDispatch increments the dispatch counter for a channel.
func RecordDispatch(channel string) {
	dispatchTotal.WithLabelValues(channel).Inc()
}

// RecordDelivery increments the per-recipient outcome counter.
func RecordDelivery(channel, outcome string) {
	deliveryTotal.WithLabelValues(channel, outcome).Inc()
}

// ObserveDispatchDuration records how long a full fan-out took.
func ObserveDispatchDuration(channel string, d time.Duration) {
	dispatchDuration.WithLabelValues(channel).Observe(d.Seconds())
}
