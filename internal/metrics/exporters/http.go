// Package exporters exposes collected metrics over HTTP.
package exporters

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath is where the Prometheus handler is mounted.
const MetricsPath = "/metrics"

// HTTPHandler returns the Prometheus handler for all promauto metrics.
func HTTPHandler() http.Handler {
	return promhttp.Handler()
}

// Mount registers the metrics handler on mux.
func Mount(mux *http.ServeMux) {
	mux.Handle("GET "+MetricsPath, HTTPHandler())
}
