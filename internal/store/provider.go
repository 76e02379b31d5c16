package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rosterlens.app/engine/core/db"
	"rosterlens.app/engine/internal/model"
)

type providerStore struct {
	db *db.DB
}

func newProviderStore(database *db.DB) *providerStore {
	return &providerStore{db: database}
}

const providerColumns = `provider_id, full_name, specialty, state, phone, npi,
	license_number, license_state, license_expiry, extra_license_states`

func scanProvider(row pgx.Row) (model.ProviderRecord, error) {
	var rec model.ProviderRecord
	err := row.Scan(&rec.ProviderID, &rec.FullName, &rec.Specialty, &rec.State,
		&rec.Phone, &rec.NPI, &rec.LicenseNumber, &rec.LicenseState,
		&rec.LicenseExpiry, &rec.ExtraLicenseStates)
	return rec, err
}

func (s *providerStore) GetByBatchAndProviderID(ctx context.Context, batchID int64, providerID string) (*model.ProviderRecord, error) {
	row := s.db.Pool().QueryRow(ctx,
		`SELECT `+providerColumns+` FROM provider_records WHERE batch_id = $1 AND provider_id = $2`,
		batchID, providerID)

	rec, err := scanProvider(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting provider %s in batch %d: %w", providerID, batchID, err)
	}
	return &rec, nil
}

// CreateAll bulk-inserts a batch's records in one round trip.
func (s *providerStore) CreateAll(ctx context.Context, batchID int64, recs []model.ProviderRecord) error {
	if len(recs) == 0 {
		return nil
	}
	rows := make([][]any, len(recs))
	for i, rec := range recs {
		rows[i] = []any{batchID, rec.ProviderID, rec.FullName, rec.Specialty, rec.State,
			rec.Phone, rec.NPI, rec.LicenseNumber, rec.LicenseState, rec.LicenseExpiry,
			rec.ExtraLicenseStates}
	}

	_, err := s.db.Pool().CopyFrom(ctx,
		pgx.Identifier{"provider_records"},
		[]string{"batch_id", "provider_id", "full_name", "specialty", "state", "phone",
			"npi", "license_number", "license_state", "license_expiry", "extra_license_states"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("inserting %d provider records for batch %d: %w", len(recs), batchID, err)
	}
	return nil
}

func (s *providerStore) ListByBatch(ctx context.Context, batchID int64) ([]model.ProviderRecord, error) {
	rows, err := s.db.Pool().Query(ctx,
		`SELECT `+providerColumns+` FROM provider_records WHERE batch_id = $1 ORDER BY provider_id`,
		batchID)
	if err != nil {
		return nil, fmt.Errorf("listing providers for batch %d: %w", batchID, err)
	}
	defer rows.Close()

	var out []model.ProviderRecord
	for rows.Next() {
		rec, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning provider record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
