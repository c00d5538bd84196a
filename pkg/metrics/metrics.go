package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LauncherStartsTotal counts start attempts per unit, by outcome.
	LauncherStartsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessiond_launcher_starts_total",
			Help: "Total number of launcher start attempts by unit and outcome",
		},
		[]string{"unit", "outcome"},
	)

	// LauncherStopsTotal counts stop attempts per unit, by outcome.
	LauncherStopsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sessiond_launcher_stops_total",
			Help: "Total number of launcher stop attempts by unit and outcome",
		},
		[]string{"unit", "outcome"},
	)

	// LauncherStartDuration measures how long a start call takes to settle.
	LauncherStartDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sessiond_launcher_start_duration_seconds",
			Help:    "Time taken for a launcher start call to settle",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"unit"},
	)

	// LauncherRunning tracks the number of units currently running.
	LauncherRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessiond_launcher_running",
			Help: "Number of units currently in a running state",
		},
	)

	// CapabilitySetsTotal counts SET events published by the capability registry.
	CapabilitySetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessiond_capability_sets_total",
			Help: "Total number of capability SET events published",
		},
	)

	// CapabilityDeletesTotal counts DEL events published by the capability registry.
	CapabilityDeletesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessiond_capability_deletes_total",
			Help: "Total number of capability DEL events published",
		},
	)
)

func init() {
	prometheus.MustRegister(LauncherStartsTotal)
	prometheus.MustRegister(LauncherStopsTotal)
	prometheus.MustRegister(LauncherStartDuration)
	prometheus.MustRegister(LauncherRunning)
	prometheus.MustRegister(CapabilitySetsTotal)
	prometheus.MustRegister(CapabilityDeletesTotal)
}

// Handler returns the Prometheus HTTP handler for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
