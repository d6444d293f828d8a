package observability

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	RecordsNormalized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tours_records_normalized_total",
			Help: "Partner records turned into listing summaries",
		},
	)

	RecordsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tours_records_dropped_total",
			Help: "Partner records left out of the listings, by reason",
		},
		[]string{"reason"},
	)

	PartnerFetchErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tours_partner_fetch_errors_total",
			Help: "Failed partner catalog requests",
		},
	)

	SnapshotReloads = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tours_snapshot_reloads_total",
			Help: "Snapshot files reloaded after a change on disk",
		},
	)

	ListingQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tours_listing_queries_total",
			Help: "Listing page queries served, by site and sort key",
		},
		[]string{"site", "sort"},
	)
)

var registerOnce sync.Once

// Register adds the counters to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RecordsNormalized,
			RecordsDropped,
			PartnerFetchErrors,
			SnapshotReloads,
			ListingQueries,
		)
	})
}

// RecordNormalization adds one normalization pass to the counters.
func RecordNormalization(kept int, dropped map[string]int) {
	RecordsNormalized.Add(float64(kept))
	for reason, n := range dropped {
		RecordsDropped.WithLabelValues(reason).Add(float64(n))
	}
}

// Start serves /metrics on its own port in the background.
func Start(port string, logger *zap.Logger) *http.Server {
	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("[Metrics] server stopped", zap.Error(err))
		}
	}()
	logger.Info("[Metrics] listening", zap.String("addr", srv.Addr))
	return srv
}
