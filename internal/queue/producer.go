package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RevalidateMessage asks the worker to re-run validation and scoring for a
// stored batch. License expiry is clock-relative, so a batch that scored
// clean at ingest can drift; periodic revalidation catches that.
type RevalidateMessage struct {
	BatchID int64
	Reason  string
	TraceID *string
	Attempt int
}

type Producer interface {
	Enqueue(ctx context.Context, msg RevalidateMessage) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, msg RevalidateMessage) error {
	attempt := msg.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"task_type": string(TaskTypeRevalidate),
		"batch_id":  msg.BatchID,
		"attempt":   attempt,
	}
	if msg.Reason != "" {
		fields["reason"] = msg.Reason
	}
	if msg.TraceID != nil && *msg.TraceID != "" {
		fields["trace_id"] = *msg.TraceID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue revalidation: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued revalidation task", "batch_id", msg.BatchID, "reason", msg.Reason, "attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
