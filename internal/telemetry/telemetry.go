// Package telemetry registers the Prometheus collectors for the poller and
// relay chain and optionally exposes them over a small metrics listener.
package telemetry

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	// FetchCycles counts completed fetch cycles by trigger (startup, timer, manual)
	FetchCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_fetch_cycles_total",
			Help: "Total number of completed fetch cycles",
		},
		[]string{"trigger"},
	)

	// SourceErrors counts fetches that degraded to the safe default, per source
	SourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_source_errors_total",
			Help: "Total number of source fetches that fell back to defaults",
		},
		[]string{"source"},
	)

	// RelayAttempts and RelayFailures track the news relay chain per relay
	RelayAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_relay_attempts_total",
			Help: "Total number of relay requests attempted",
		},
		[]string{"relay"},
	)
	RelayFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_relay_failures_total",
			Help: "Total number of relay requests that failed or were blocked",
		},
		[]string{"relay"},
	)

	// PoolCount is the number of pools in the current snapshot
	PoolCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_pool_count",
			Help: "Number of pools in the current snapshot",
		},
	)

	// MarketAPY is the mean APY across all loaded pools
	MarketAPY = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_market_apy",
			Help: "Mean APY across all loaded pools, percent",
		},
	)

	// FetchDuration observes full fetch-cycle wall time
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_fetch_duration_seconds",
			Help:    "Fetch cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Serve starts the metrics listener on the given port. It exposes /metrics
// and a /health endpoint and blocks; run it in a goroutine.
func Serve(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logrus.Infof("Metrics listener starting on port %s", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Errorf("Metrics listener error: %v", err)
	}
}
