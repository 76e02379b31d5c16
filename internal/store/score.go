package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rosterlens.app/engine/core/db"
	"rosterlens.app/engine/internal/model"
)

type scoreStore struct {
	db *db.DB
}

func newScoreStore(database *db.DB) *scoreStore {
	return &scoreStore{db: database}
}

// ReplaceForBatch swaps a batch's scores and summary in one transaction.
// Issue details are not duplicated here; the issue store owns those.
func (s *scoreStore) ReplaceForBatch(ctx context.Context, batchID int64, scores []model.ProviderScore, summary model.DatasetSummary) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM provider_scores WHERE batch_id = $1`, batchID); err != nil {
			return fmt.Errorf("clearing scores for batch %d: %w", batchID, err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM dataset_summaries WHERE batch_id = $1`, batchID); err != nil {
			return fmt.Errorf("clearing summary for batch %d: %w", batchID, err)
		}

		if len(scores) > 0 {
			rows := make([][]any, len(scores))
			for i, sc := range scores {
				rows[i] = []any{batchID, sc.ProviderID, sc.RawPenalty, sc.FinalScore}
			}
			if _, err := tx.CopyFrom(ctx,
				pgx.Identifier{"provider_scores"},
				[]string{"batch_id", "provider_id", "raw_penalty", "final_score"},
				pgx.CopyFromRows(rows)); err != nil {
				return fmt.Errorf("inserting %d scores for batch %d: %w", len(scores), batchID, err)
			}
		}

		byCategory := make(map[string]int, len(summary.IssuesByCategory))
		for cat, n := range summary.IssuesByCategory {
			byCategory[string(cat)] = n
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO dataset_summaries (batch_id, overall_score, provider_count,
			    issues_by_category, issues_by_state, issues_by_specialty)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			batchID, summary.OverallScore, summary.ProviderCount,
			byCategory, summary.IssuesByState, summary.IssuesBySpecialty); err != nil {
			return fmt.Errorf("inserting summary for batch %d: %w", batchID, err)
		}
		return nil
	})
}

func (s *scoreStore) GetByProvider(ctx context.Context, batchID int64, providerID string) (*model.ProviderScore, error) {
	row := s.db.Pool().QueryRow(ctx,
		`SELECT provider_id, raw_penalty, final_score FROM provider_scores
		 WHERE batch_id = $1 AND provider_id = $2`, batchID, providerID)

	var sc model.ProviderScore
	if err := row.Scan(&sc.ProviderID, &sc.RawPenalty, &sc.FinalScore); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting score for provider %s: %w", providerID, err)
	}
	return &sc, nil
}

func (s *scoreStore) ListByBatch(ctx context.Context, batchID int64) ([]model.ProviderScore, error) {
	rows, err := s.db.Pool().Query(ctx,
		`SELECT provider_id, raw_penalty, final_score FROM provider_scores
		 WHERE batch_id = $1 ORDER BY provider_id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("listing scores for batch %d: %w", batchID, err)
	}
	defer rows.Close()

	var out []model.ProviderScore
	for rows.Next() {
		var sc model.ProviderScore
		if err := rows.Scan(&sc.ProviderID, &sc.RawPenalty, &sc.FinalScore); err != nil {
			return nil, fmt.Errorf("scanning score: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *scoreStore) GetSummary(ctx context.Context, batchID int64) (*model.DatasetSummary, error) {
	row := s.db.Pool().QueryRow(ctx,
		`SELECT overall_score, provider_count, issues_by_category, issues_by_state,
		    issues_by_specialty
		 FROM dataset_summaries WHERE batch_id = $1`, batchID)

	var sum model.DatasetSummary
	byCategory := make(map[string]int)
	if err := row.Scan(&sum.OverallScore, &sum.ProviderCount, &byCategory,
		&sum.IssuesByState, &sum.IssuesBySpecialty); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting summary for batch %d: %w", batchID, err)
	}

	sum.IssuesByCategory = make(map[model.IssueCategory]int, len(byCategory))
	for cat, n := range byCategory {
		sum.IssuesByCategory[model.IssueCategory(cat)] = n
	}
	return &sum, nil
}
