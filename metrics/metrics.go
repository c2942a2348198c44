// Package metrics exposes Prometheus instrumentation for completion requests.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

var (
	// completionsTotal counts completion requests by outcome (hit, miss, error).
	completionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "poresolver",
		Subsystem: "completion",
		Name:      "requests_total",
		Help:      "Completion requests by outcome",
	}, []string{"outcome"})

	completionSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "poresolver",
		Subsystem: "completion",
		Name:      "duration_seconds",
		Help:      "Time to resolve, load, parse and extract a completion request",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	})

	// errorsTotal counts failed requests by error class.
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "poresolver",
		Subsystem: "completion",
		Name:      "errors_total",
		Help:      "Failed completion requests by error class",
	}, []string{"kind"})

	// checksTotal counts page object files checked by the watcher or the check command.
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "poresolver",
		Subsystem: "objects",
		Name:      "checks_total",
		Help:      "Page object files validated, by result",
	}, []string{"result"})
)

func RecordCompletion(outcome string, d time.Duration) {
	completionsTotal.WithLabelValues(outcome).Inc()
	completionSeconds.Observe(d.Seconds())
}

func RecordError(kind string) {
	errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCheck records one validated page object file.
func RecordCheck(ok bool) {
	if ok {
		checksTotal.WithLabelValues("ok").Inc()
		return
	}
	checksTotal.WithLabelValues("failed").Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
