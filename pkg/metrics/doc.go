/*
Package metrics provides Prometheus instrumentation for the launcher
supervisor and capability registry.

Metrics are registered at package init time against the global
Prometheus registry and exposed via Handler(), an http.Handler
suitable for mounting at "/metrics".

# Catalog

sessiond_launcher_starts_total{unit,outcome}: Counter
  - Total start attempts, by unit name and outcome (ok/error).

sessiond_launcher_stops_total{unit,outcome}: Counter
  - Total stop attempts, by unit name and outcome.

sessiond_launcher_start_duration_seconds{unit}: Histogram
  - Time from Start() being called to the returned handle settling.

sessiond_launcher_running: Gauge
  - Number of units currently in a running state.

sessiond_capability_sets_total / sessiond_capability_deletes_total: Counter
  - Total SET / DEL events published by capability registries.

# Usage

launcher.Supervisor instruments itself directly: runStart and runStop
observe LauncherStartsTotal/LauncherStopsTotal/LauncherStartDuration on
every call, and LauncherRunning is adjusted wherever a unit enters or
leaves the running set. capability.Registry does the same for
CapabilitySetsTotal/CapabilityDeletesTotal around every Set/Delete/Pop.
Callers only need to mount Handler() somewhere scrapeable:

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
*/
package metrics
