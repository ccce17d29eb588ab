// Package metrics exposes Prometheus instrumentation for trial runs.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	trialsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "colonysim_trials_total",
		Help: "Completed trials by outcome and mode",
	}, []string{"outcome", "mode"})

	shocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colonysim_shocks_total",
		Help: "Pandemic shocks applied to the colony population",
	})

	cappedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colonysim_trials_capped_total",
		Help: "Extinction-mode trials stopped by the year cap",
	})

	trialYears = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "colonysim_trial_years",
		Help:    "Simulated years per trial",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "colonysim_sweep_duration_seconds",
		Help:    "Wall time of a full probability sweep",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveTrial records one finished trial.
func ObserveTrial(outcome, mode string, years, shocks int, capped bool) {
	trialsTotal.WithLabelValues(outcome, mode).Inc()
	shocksTotal.Add(float64(shocks))
	trialYears.Observe(float64(years))
	if capped {
		cappedTotal.Inc()
	}
}

// ObserveSweep records the wall time of a sweep.
func ObserveSweep(d time.Duration) {
	sweepDuration.Observe(d.Seconds())
}

// Serve exposes /metrics on addr until ctx is done. An empty addr disables it.
func Serve(ctx context.Context, addr string) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
