package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos
const (
	// Per-activity terminal states
	OutcomeSynced      = "synced"
	OutcomeSkipped     = "skipped"
	OutcomeFailedFetch = "failed_fetch"
	OutcomeFailedWrite = "failed_write"
)

// Sync metrics
var (
	ActivitiesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stryd_activities_processed_total",
			Help: "Activities processed by terminal state",
		},
		[]string{"outcome"},
	)

	SyncRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stryd_sync_runs_total",
			Help: "Total number of sync runs started",
		},
	)

	SyncBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stryd_sync_batches_total",
			Help: "Total number of batches processed",
		},
	)

	DetailFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stryd_detail_fetch_duration_seconds",
			Help:    "Latency of activity detail fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	StoreWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stryd_store_write_duration_seconds",
			Help:    "Latency of per-activity store writes",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	ActivitiesInStore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stryd_activities_in_store",
			Help: "Total activity rows in the store after the last run",
		},
	)
)
