package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rosterlens.app/engine/core/db"
	"rosterlens.app/engine/internal/model"
)

type issueStore struct {
	db *db.DB
}

func newIssueStore(database *db.DB) *issueStore {
	return &issueStore{db: database}
}

// ReplaceForBatch swaps a batch's findings atomically: a revalidation
// either lands in full or not at all.
func (s *issueStore) ReplaceForBatch(ctx context.Context, batchID int64, issues []model.Issue) error {
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM validation_issues WHERE batch_id = $1`, batchID); err != nil {
			return fmt.Errorf("clearing issues for batch %d: %w", batchID, err)
		}
		if len(issues) == 0 {
			return nil
		}

		rows := make([][]any, len(issues))
		for i, iss := range issues {
			rows[i] = []any{batchID, iss.ProviderID, string(iss.Category),
				iss.Severity.String(), iss.Detail}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"validation_issues"},
			[]string{"batch_id", "provider_id", "category", "severity", "detail"},
			pgx.CopyFromRows(rows)); err != nil {
			return fmt.Errorf("inserting %d issues for batch %d: %w", len(issues), batchID, err)
		}
		return nil
	})
}

func (s *issueStore) ListByBatch(ctx context.Context, batchID int64) ([]model.Issue, error) {
	rows, err := s.db.Pool().Query(ctx,
		`SELECT provider_id, category, detail FROM validation_issues WHERE batch_id = $1
		 ORDER BY provider_id, category`, batchID)
	if err != nil {
		return nil, fmt.Errorf("listing issues for batch %d: %w", batchID, err)
	}
	defer rows.Close()
	return collectIssues(rows)
}

func (s *issueStore) ListByProvider(ctx context.Context, batchID int64, providerID string) ([]model.Issue, error) {
	rows, err := s.db.Pool().Query(ctx,
		`SELECT provider_id, category, detail FROM validation_issues
		 WHERE batch_id = $1 AND provider_id = $2 ORDER BY category`, batchID, providerID)
	if err != nil {
		return nil, fmt.Errorf("listing issues for provider %s: %w", providerID, err)
	}
	defer rows.Close()
	return collectIssues(rows)
}

// collectIssues rebuilds issues from rows; severity is derived from the
// category rather than trusted from storage.
func collectIssues(rows pgx.Rows) ([]model.Issue, error) {
	var out []model.Issue
	for rows.Next() {
		var providerID, category, detail string
		if err := rows.Scan(&providerID, &category, &detail); err != nil {
			return nil, fmt.Errorf("scanning issue: %w", err)
		}
		out = append(out, model.NewIssue(providerID, model.IssueCategory(category), detail))
	}
	return out, rows.Err()
}
