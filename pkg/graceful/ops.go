package graceful

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/granabot/grana-bot/pkg/logger"
)

// HealthFunc reports whether the process dependencies are reachable.
type HealthFunc func(r *http.Request) error

// NewOpsMux builds the ops HTTP handler exposing /healthz and /metrics.
func NewOpsMux(health HealthFunc) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", promhttp.Handler())

	return logger.Middleware(mux)
}
