// Package syncer orchestrates a sync run: it decides per activity whether
// to fetch full detail, applies the overwrite policy, normalizes and writes
// through the store, and accounts per-batch progress.
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stryd-activity-sync/internal/database"
	"stryd-activity-sync/internal/metrics"
	"stryd-activity-sync/internal/normalize"
	"stryd-activity-sync/internal/stryd"
)

// DefaultBatchSize bounds progress reporting cadence, not concurrency
const DefaultBatchSize = 10

// Source is the slice of the remote service the engine needs: full detail
// payloads by activity id. A nil detail with a nil error means the source
// has no detail for that id.
type Source interface {
	GetActivityDetail(ctx context.Context, activityID int64) (*stryd.ActivityDetail, error)
}

// Report holds the per-run terminal state counts
type Report struct {
	Synced  int
	Skipped int
	Failed  int
	Total   int
}

// Syncer runs activity synchronization against a single store connection.
// Activities are processed strictly sequentially; each one commits or rolls
// back independently of the others.
type Syncer struct {
	db     *database.DB
	source Source
	logger *slog.Logger

	batchSize int
	force     bool
}

// New creates a Syncer. batchSize <= 0 falls back to DefaultBatchSize.
func New(db *database.DB, source Source, force bool, batchSize int) *Syncer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Syncer{
		db:        db,
		source:    source,
		logger:    slog.Default(),
		batchSize: batchSize,
		force:     force,
	}
}

// Run processes the summaries in order, in batches of the configured size.
// Per-activity failures are recorded and the run continues; Run itself only
// returns an error for run-fatal conditions (cancellation, a payload
// missing its id). The returned report is valid in both cases.
func (s *Syncer) Run(ctx context.Context, summaries []stryd.ActivitySummary) (*Report, error) {
	report := &Report{Total: len(summaries)}

	metrics.SyncRunsTotal.Inc()
	s.logger.Info("starting sync",
		"total", len(summaries),
		"batch_size", s.batchSize,
		"force", s.force)

	totalBatches := (len(summaries) + s.batchSize - 1) / s.batchSize

	for batchStart := 0; batchStart < len(summaries); batchStart += s.batchSize {
		batchEnd := min(batchStart+s.batchSize, len(summaries))
		batchNum := batchStart/s.batchSize + 1

		metrics.SyncBatchesTotal.Inc()
		s.logger.Info("processing batch",
			"batch", batchNum,
			"total_batches", totalBatches,
			"from", batchStart+1,
			"to", batchEnd)

		for i := batchStart; i < batchEnd; i++ {
			// Cancellation is honored between activities only; an in-flight
			// write always completes or rolls back first.
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			default:
			}

			if err := s.syncOne(ctx, summaries[i], i+1, report); err != nil {
				return report, err
			}
		}
	}

	s.logger.Info("sync completed",
		"synced", report.Synced,
		"skipped", report.Skipped,
		"failed", report.Failed)

	return report, nil
}

// syncOne drives one activity to a terminal state. Only a run-fatal
// condition is returned as an error.
func (s *Syncer) syncOne(ctx context.Context, summary stryd.ActivitySummary, position int, report *Report) error {
	logger := s.logger.With(
		"activity_id", summary.ID,
		"name", summary.Name,
		"position", position,
		"total", report.Total)

	if !s.force {
		exists, err := s.db.ActivityExists(summary.ID)
		if err != nil {
			logger.Error("existence check failed", "error", err)
			report.Failed++
			metrics.ActivitiesProcessedTotal.WithLabelValues(metrics.OutcomeFailedWrite).Inc()
			return nil
		}
		if exists {
			logger.Info("already synced, skipping")
			report.Skipped++
			metrics.ActivitiesProcessedTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
			return nil
		}
	}

	fetchStart := time.Now()
	detail, err := s.source.GetActivityDetail(ctx, summary.ID)
	metrics.DetailFetchDuration.Observe(time.Since(fetchStart).Seconds())

	if err != nil || detail == nil {
		// Not retried within the run; a timeout is the same as no detail
		logger.Warn("failed to fetch details", "error", err)
		report.Failed++
		metrics.ActivitiesProcessedTotal.WithLabelValues(metrics.OutcomeFailedFetch).Inc()
		return nil
	}

	rows, err := normalize.Normalize(detail)
	if err != nil {
		if errors.Is(err, normalize.ErrMissingID) {
			// A payload without an id means the source is handing back
			// garbage; abort before anything touches the store.
			return err
		}
		logger.Error("failed to normalize activity", "error", err)
		report.Failed++
		metrics.ActivitiesProcessedTotal.WithLabelValues(metrics.OutcomeFailedWrite).Inc()
		return nil
	}

	writeStart := time.Now()
	result, err := s.db.SaveActivity(rows, s.force)
	metrics.StoreWriteDuration.Observe(time.Since(writeStart).Seconds())

	switch {
	case err != nil:
		logger.Error("failed to write activity", "error", err)
		report.Failed++
		metrics.ActivitiesProcessedTotal.WithLabelValues(metrics.OutcomeFailedWrite).Inc()
	case result == database.WriteSkipped:
		// Existence changed between check and write; success-skip
		logger.Info("already synced, skipping")
		report.Skipped++
		metrics.ActivitiesProcessedTotal.WithLabelValues(metrics.OutcomeSkipped).Inc()
	default:
		logger.Info("activity synced")
		report.Synced++
		metrics.ActivitiesProcessedTotal.WithLabelValues(metrics.OutcomeSynced).Inc()
	}

	return nil
}
