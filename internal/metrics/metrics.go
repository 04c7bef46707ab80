// Package metrics holds the Prometheus collectors of nebula-guide.
// Collectors are registered on the default registry and exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nebula_guide"

var (
	// wizardsStarted counts new wizard runs
	wizardsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wizard",
		Name:      "started_total",
		Help:      "Total wizard runs started",
	})

	// wizardTransitions counts screen changes.
	// Labels: from, to (screen names)
	wizardTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wizard",
		Name:      "transitions_total",
		Help:      "Total wizard screen transitions",
	}, []string{"from", "to"})

	// actionsRejected counts actions refused by the reducer.
	// Labels: kind (action kind)
	actionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "wizard",
		Name:      "actions_rejected_total",
		Help:      "Total wizard actions rejected",
	}, []string{"kind"})

	// notifications counts outbound tracking notifications.
	// Labels: kind (report, consult), sink (webhook, postgres), outcome (sent, failed)
	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notify",
		Name:      "notifications_total",
		Help:      "Total tracking notifications by outcome",
	}, []string{"kind", "sink", "outcome"})

	// notificationLatency measures delivery time of tracking notifications.
	// Labels: sink
	notificationLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "notify",
		Name:      "latency_seconds",
		Help:      "Tracking notification delivery latency in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"sink"})

	// assetResponses counts static asset responses.
	// Labels: outcome (file, fallback, missing, error)
	assetResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "assets",
		Name:      "responses_total",
		Help:      "Total static asset responses by outcome",
	}, []string{"outcome"})

	// sessionsSwept counts idle wizard sessions removed by the cleaner
	sessionsSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sessions",
		Name:      "swept_total",
		Help:      "Total idle wizard sessions removed",
	})
)

// RecordWizardStarted counts a new wizard run
func RecordWizardStarted() {
	wizardsStarted.Inc()
}

// RecordTransition counts a screen change
func RecordTransition(from, to string) {
	wizardTransitions.WithLabelValues(from, to).Inc()
}

// RecordActionRejected counts an action the reducer refused
func RecordActionRejected(kind string) {
	actionsRejected.WithLabelValues(kind).Inc()
}

// RecordNotification records the outcome and latency of one delivery
func RecordNotification(kind, sink string, err error, durationSec float64) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	notifications.WithLabelValues(kind, sink, outcome).Inc()
	notificationLatency.WithLabelValues(sink).Observe(durationSec)
}

// RecordAssetResponse counts a static asset response
func RecordAssetResponse(outcome string) {
	assetResponses.WithLabelValues(outcome).Inc()
}

// RecordSessionsSwept counts removed idle sessions
func RecordSessionsSwept(n int) {
	sessionsSwept.Add(float64(n))
}
