// Package roster coordinates ingestion, validation, scoring, persistence
// and snapshot publication.
package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"rosterlens.app/engine/common/id"
	"rosterlens.app/engine/common/logger"
	"rosterlens.app/engine/internal/dataset"
	"rosterlens.app/engine/internal/ingest"
	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/queue"
	"rosterlens.app/engine/internal/scoring"
	"rosterlens.app/engine/internal/store"
	"rosterlens.app/engine/internal/validate"
)

// Service owns the roster lifecycle. Validation and scoring run
// synchronously at ingest so the caller gets scores back in the response;
// later drift is handled by revalidation tasks.
type Service struct {
	runner    *validate.Runner
	weights   scoring.Weights
	snapshots *dataset.Store
	stores    *store.Stores
	producer  queue.Producer
	now       func() time.Time
}

func NewService(runner *validate.Runner, weights scoring.Weights, snapshots *dataset.Store, stores *store.Stores, producer queue.Producer) *Service {
	return &Service{
		runner:    runner,
		weights:   weights,
		snapshots: snapshots,
		stores:    stores,
		producer:  producer,
		now:       time.Now,
	}
}

// IngestCSV parses a CSV roster upload and ingests the records.
func (s *Service) IngestCSV(ctx context.Context, name string, r io.Reader) (*model.IngestionBatch, *dataset.Snapshot, error) {
	recs, err := ingest.LoadCSV(ctx, r)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing roster: %w", err)
	}
	return s.IngestRecords(ctx, name, recs)
}

// IngestRecords validates, scores and persists a roster batch, then
// publishes the new snapshot. The published snapshot is returned.
func (s *Service) IngestRecords(ctx context.Context, name string, recs []model.ProviderRecord) (*model.IngestionBatch, *dataset.Snapshot, error) {
	if len(recs) == 0 {
		return nil, nil, fmt.Errorf("roster has no usable records")
	}

	batch := &model.IngestionBatch{
		ID:          id.New(),
		Name:        name,
		RecordCount: len(recs),
		CreatedAt:   s.now().UTC(),
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		BatchID:   &batch.ID,
		Component: "roster",
	})

	now := s.now()
	issues := s.runner.Run(ctx, recs, now)
	scores, summary, err := scoring.Score(recs, issues, s.weights)
	if err != nil {
		return nil, nil, fmt.Errorf("scoring batch: %w", err)
	}

	if err := s.persist(ctx, batch, recs, issues, scores, summary); err != nil {
		return nil, nil, err
	}

	snap := s.snapshots.Publish(&dataset.Snapshot{
		BatchID: batch.ID,
		Records: recs,
		Issues:  issues,
		Scores:  scores,
		Summary: summary,
	})

	slog.InfoContext(ctx, "roster ingested",
		"records", len(recs),
		"issues", len(issues),
		"overall_score", summary.OverallScore,
		"snapshot_version", snap.Version)

	return batch, snap, nil
}

func (s *Service) persist(ctx context.Context, batch *model.IngestionBatch, recs []model.ProviderRecord, issues []model.Issue, scores []model.ProviderScore, summary model.DatasetSummary) error {
	if err := s.stores.Batches().Create(ctx, batch); err != nil {
		return fmt.Errorf("persisting batch: %w", err)
	}
	if err := s.stores.Providers().CreateAll(ctx, batch.ID, recs); err != nil {
		return fmt.Errorf("persisting records: %w", err)
	}
	if err := s.stores.Issues().ReplaceForBatch(ctx, batch.ID, issues); err != nil {
		return fmt.Errorf("persisting issues: %w", err)
	}
	if err := s.stores.Scores().ReplaceForBatch(ctx, batch.ID, scores, summary); err != nil {
		return fmt.Errorf("persisting scores: %w", err)
	}
	return nil
}

// Revalidate re-runs validation and scoring for a stored batch against the
// current clock, persists the result, and republishes the snapshot when
// the batch is the one currently loaded.
func (s *Service) Revalidate(ctx context.Context, batchID int64) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		BatchID:   &batchID,
		Component: "roster",
	})

	batch, err := s.stores.Batches().GetByID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("loading batch %d: %w", batchID, err)
	}
	recs, err := s.stores.Providers().ListByBatch(ctx, batch.ID)
	if err != nil {
		return fmt.Errorf("loading records for batch %d: %w", batchID, err)
	}

	issues := s.runner.Run(ctx, recs, s.now())
	scores, summary, err := scoring.Score(recs, issues, s.weights)
	if err != nil {
		return fmt.Errorf("rescoring batch %d: %w", batchID, err)
	}

	if err := s.stores.Issues().ReplaceForBatch(ctx, batch.ID, issues); err != nil {
		return fmt.Errorf("persisting issues: %w", err)
	}
	if err := s.stores.Scores().ReplaceForBatch(ctx, batch.ID, scores, summary); err != nil {
		return fmt.Errorf("persisting scores: %w", err)
	}

	if cur := s.snapshots.Current(); cur != nil && cur.BatchID == batch.ID {
		s.snapshots.Publish(&dataset.Snapshot{
			BatchID: batch.ID,
			Records: recs,
			Issues:  issues,
			Scores:  scores,
			Summary: summary,
		})
	}

	slog.InfoContext(ctx, "batch revalidated",
		"records", len(recs),
		"issues", len(issues),
		"overall_score", summary.OverallScore)
	return nil
}

// ScheduleRevalidation enqueues a revalidation task for a batch.
func (s *Service) ScheduleRevalidation(ctx context.Context, batchID int64, reason string) error {
	if s.producer == nil {
		return fmt.Errorf("no task queue configured")
	}
	return s.producer.Enqueue(ctx, queue.RevalidateMessage{
		BatchID: batchID,
		Reason:  reason,
	})
}

// LoadLatest rehydrates the snapshot from the most recent stored batch,
// revalidating against the current clock. A missing batch is not an
// error; the process just starts with an empty snapshot.
func (s *Service) LoadLatest(ctx context.Context) error {
	batch, err := s.stores.Batches().GetLatest(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.InfoContext(ctx, "no stored roster, starting empty")
			return nil
		}
		return fmt.Errorf("loading latest batch: %w", err)
	}

	recs, err := s.stores.Providers().ListByBatch(ctx, batch.ID)
	if err != nil {
		return fmt.Errorf("loading records for batch %d: %w", batch.ID, err)
	}

	issues := s.runner.Run(ctx, recs, s.now())
	scores, summary, err := scoring.Score(recs, issues, s.weights)
	if err != nil {
		return fmt.Errorf("scoring batch %d: %w", batch.ID, err)
	}

	s.snapshots.Publish(&dataset.Snapshot{
		BatchID: batch.ID,
		Records: recs,
		Issues:  issues,
		Scores:  scores,
		Summary: summary,
	})

	slog.InfoContext(ctx, "latest roster loaded",
		"batch_id", batch.ID,
		"records", len(recs))
	return nil
}
