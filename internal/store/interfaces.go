package store

import (
	"context"
	"errors"

	"rosterlens.app/engine/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// BatchStore defines the contract for ingestion batch data access
type BatchStore interface {
	GetByID(ctx context.Context, id int64) (*model.IngestionBatch, error)
	GetLatest(ctx context.Context) (*model.IngestionBatch, error)
	Create(ctx context.Context, batch *model.IngestionBatch) error
	List(ctx context.Context, limit int32) ([]model.IngestionBatch, error)
}

// ProviderStore defines the contract for provider record data access
type ProviderStore interface {
	GetByBatchAndProviderID(ctx context.Context, batchID int64, providerID string) (*model.ProviderRecord, error)
	CreateAll(ctx context.Context, batchID int64, recs []model.ProviderRecord) error
	ListByBatch(ctx context.Context, batchID int64) ([]model.ProviderRecord, error)
}

// IssueStore defines the contract for validation finding data access
type IssueStore interface {
	ReplaceForBatch(ctx context.Context, batchID int64, issues []model.Issue) error
	ListByBatch(ctx context.Context, batchID int64) ([]model.Issue, error)
	ListByProvider(ctx context.Context, batchID int64, providerID string) ([]model.Issue, error)
}

// ScoreStore defines the contract for provider score data access
type ScoreStore interface {
	ReplaceForBatch(ctx context.Context, batchID int64, scores []model.ProviderScore, summary model.DatasetSummary) error
	GetByProvider(ctx context.Context, batchID int64, providerID string) (*model.ProviderScore, error)
	ListByBatch(ctx context.Context, batchID int64) ([]model.ProviderScore, error)
	GetSummary(ctx context.Context, batchID int64) (*model.DatasetSummary, error)
}
