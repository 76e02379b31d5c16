// Package worker consumes revalidation tasks from the stream and re-runs
// validation and scoring for stored batches.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rosterlens.app/engine/common/logger"
	"rosterlens.app/engine/internal/queue"
	"rosterlens.app/engine/internal/store"
)

// Revalidator re-runs validation and scoring for one stored batch.
// Mirrors the roster service method; defined here to avoid import cycles.
type Revalidator interface {
	Revalidate(ctx context.Context, batchID int64) error
}

type Config struct {
	MaxAttempts int
}

type Worker struct {
	consumer    *queue.RedisConsumer
	revalidator Revalidator
	cfg         Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer *queue.RedisConsumer, revalidator Revalidator, cfg Config) *Worker {
	return &Worker{
		consumer:    consumer,
		revalidator: revalidator,
		cfg:         cfg,
		stopCh:      make(chan struct{}),
		stoppedCh:   make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		if err := w.processMessageSafe(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "message processing failed",
				"error", err,
				"message_id", msg.ID,
				"batch_id", msg.BatchID)
			w.handleFailedMessage(ctx, msg, err)
		}
	}

	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"batch_id", msg.BatchID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage handles one revalidation task. A batch that no longer
// exists is acked and dropped; retrying cannot bring it back.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		BatchID:   &msg.BatchID,
		TaskID:    &msg.ID,
		Component: "worker",
	})

	slog.InfoContext(ctx, "processing revalidation task",
		"reason", msg.Reason,
		"attempt", msg.Attempt)

	if err := w.revalidator.Revalidate(ctx, msg.BatchID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.WarnContext(ctx, "batch gone, dropping task")
			return w.consumer.Ack(ctx, msg)
		}
		return err
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// Message will be redelivered; revalidation is idempotent so
		// that is safe.
		slog.WarnContext(ctx, "failed to ACK message",
			"error", err,
			"message_id", msg.ID)
	}
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ",
			"message_id", msg.ID,
			"batch_id", msg.BatchID,
			"attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"batch_id", msg.BatchID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
