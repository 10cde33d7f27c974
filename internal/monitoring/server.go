package monitoring

import (
	"net/http"
	"strings"
	"time"
)

const metricsReadHeaderTimeout = 5 * time.Second

// MetricsServer returns a standalone HTTP server exposing the module's
// metrics at endpoint. The function host owns its own mux, so metrics are
// served on a separate listener there.
func (m *Module) MetricsServer(addr, endpoint string) *http.Server {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint, m.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
}
