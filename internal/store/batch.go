package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rosterlens.app/engine/core/db"
	"rosterlens.app/engine/internal/model"
)

type batchStore struct {
	db *db.DB
}

func newBatchStore(database *db.DB) *batchStore {
	return &batchStore{db: database}
}

func (s *batchStore) GetByID(ctx context.Context, id int64) (*model.IngestionBatch, error) {
	row := s.db.Pool().QueryRow(ctx,
		`SELECT id, name, record_count, created_at FROM ingestion_batches WHERE id = $1`, id)

	var b model.IngestionBatch
	if err := row.Scan(&b.ID, &b.Name, &b.RecordCount, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting batch %d: %w", id, err)
	}
	return &b, nil
}

func (s *batchStore) GetLatest(ctx context.Context) (*model.IngestionBatch, error) {
	row := s.db.Pool().QueryRow(ctx,
		`SELECT id, name, record_count, created_at FROM ingestion_batches ORDER BY created_at DESC LIMIT 1`)

	var b model.IngestionBatch
	if err := row.Scan(&b.ID, &b.Name, &b.RecordCount, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest batch: %w", err)
	}
	return &b, nil
}

func (s *batchStore) Create(ctx context.Context, batch *model.IngestionBatch) error {
	_, err := s.db.Pool().Exec(ctx,
		`INSERT INTO ingestion_batches (id, name, record_count, created_at) VALUES ($1, $2, $3, $4)`,
		batch.ID, batch.Name, batch.RecordCount, batch.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating batch %d: %w", batch.ID, err)
	}
	return nil
}

func (s *batchStore) List(ctx context.Context, limit int32) ([]model.IngestionBatch, error) {
	rows, err := s.db.Pool().Query(ctx,
		`SELECT id, name, record_count, created_at FROM ingestion_batches ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	var out []model.IngestionBatch
	for rows.Next() {
		var b model.IngestionBatch
		if err := rows.Scan(&b.ID, &b.Name, &b.RecordCount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
