// Package metrics exposes scrape progress counters and an optional
// Prometheus listener for long-running historical backfills.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the scrape progress collectors.
type Metrics struct {
	registry *prometheus.Registry

	PagesFetched prometheus.Counter
	FetchRetries prometheus.Counter
	RowsWritten  prometheus.Counter
	RowsSkipped  prometheus.Counter
	RowFailures  *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		PagesFetched: factory.NewCounter(prometheus.CounterOpts{
			Name: "fxcal_pages_fetched_total",
			Help: "Calendar pages fetched and processed.",
		}),
		FetchRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "fxcal_fetch_retries_total",
			Help: "Page fetch attempts that were retried.",
		}),
		RowsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "fxcal_rows_written_total",
			Help: "Event records appended to the output sink.",
		}),
		RowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "fxcal_rows_skipped_total",
			Help: "Rows skipped as out of range, duplicate boundary, or empty.",
		}),
		RowFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fxcal_row_failures_total",
			Help: "Row-level failures recorded to the error sink.",
		}, []string{"category"}),
	}
}

// Serve starts the /metrics and /healthz listener on addr. The returned
// shutdown function stops it; startup errors are logged, not fatal —
// metrics must never take down a scrape.
func (m *Metrics) Serve(addr string, logger *slog.Logger) func(context.Context) {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics listener starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics listener stopped",
				slog.String("addr", addr),
				slog.String("error", err.Error()))
		}
	}()

	return func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics listener shutdown failed", slog.String("error", err.Error()))
		}
	}
}
