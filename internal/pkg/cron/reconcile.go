package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/sparkhq/spark-backend-go/internal/domain/batch"
)

type BatchJobs struct {
	batchSvc  batch.BatchService
	batchRepo batch.BatchRepository
	interval  time.Duration
}

func NewBatchJobs(batchSvc batch.BatchService, batchRepo batch.BatchRepository, interval time.Duration) *BatchJobs {
	return &BatchJobs{
		batchSvc:  batchSvc,
		batchRepo: batchRepo,
		interval:  interval,
	}
}

func (j *BatchJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_open_batch_totals", j.interval, j.ReconcileOpenBatchTotals)
}

// ReconcileOpenBatchTotals re-aggregates totals for every batch that has not
// reached a terminal state, so stored totals never drift from the allocation
// rows after manual data fixes.
func (j *BatchJobs) ReconcileOpenBatchTotals(ctx context.Context) error {
	open, err := j.batchRepo.ListOpen(ctx)
	if err != nil {
		return err
	}

	for _, b := range open {
		total, count, err := j.batchSvc.RecalculateTotals(ctx, b.ID)
		if err != nil {
			slog.Error("Cron: failed to reconcile batch totals", "batch_id", b.ID, "error", err)
			continue
		}
		if !total.Equal(b.TotalAmount) || count != b.RecordCount {
			slog.Info("Cron: batch totals corrected",
				"batch_id", b.ID,
				"total", total.StringFixed(2),
				"record_count", count)
		}
	}

	return nil
}
