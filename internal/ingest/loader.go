// Package ingest parses uploaded rosters into provider records. Rosters
// arrive as CSV with unpredictable header spellings; a synonym table maps
// them onto the canonical schema.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"rosterlens.app/engine/internal/model"
)

// columnSynonyms maps each canonical field to the header spellings seen in
// the wild. Matching is case-insensitive; the first synonym present wins.
var columnSynonyms = map[string][]string{
	"provider_id":    {"provider_id", "id", "prv_id", "provider_identifier"},
	"first_name":     {"first_name", "fname", "given_name", "provider_first_name"},
	"last_name":      {"last_name", "lname", "surname", "provider_last_name"},
	"full_name":      {"full_name", "name", "provider_name"},
	"npi":            {"npi", "npi_number", "provider_npi"},
	"license_number": {"license_number", "lic_no", "license", "provider_license_number"},
	"license_state":  {"license_state", "state_license", "lic_state", "issuing_state"},
	"license_expiry": {"license_expiration_date", "license_expiration", "expiration_date", "expiry", "exp_date"},
	"specialty":      {"specialty", "primary_specialty", "taxonomy"},
	"phone":          {"phone", "phone_number", "telephone", "contact_phone", "practice_phone"},
	"state":          {"address_state", "state", "practice_state"},
	"extra_license_states": {"extra_license_states", "additional_license_states",
		"secondary_license_states", "other_license_states"},
}

// LoadCSV reads a roster and returns its records in file order. A missing
// provider_id column is fatal; all other fields may be absent and simply
// come back empty, becoming validation findings later.
func LoadCSV(ctx context.Context, r io.Reader) ([]model.ProviderRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("roster is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}

	cols := resolveColumns(header)
	if _, ok := cols["provider_id"]; !ok {
		return nil, fmt.Errorf("roster has no provider_id column (or a recognized synonym)")
	}

	var recs []model.ProviderRecord
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read roster line %d: %w", line, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := model.ProviderRecord{
			ProviderID:    field("provider_id"),
			FullName:      field("full_name"),
			Specialty:     field("specialty"),
			State:         field("state"),
			Phone:         field("phone"),
			NPI:           field("npi"),
			LicenseNumber: field("license_number"),
			LicenseState:  field("license_state"),
			LicenseExpiry: field("license_expiry"),
		}
		if rec.FullName == "" {
			rec.FullName = strings.TrimSpace(field("first_name") + " " + field("last_name"))
		}
		if extra := field("extra_license_states"); extra != "" {
			for _, st := range strings.Split(extra, ";") {
				if st = strings.TrimSpace(st); st != "" {
					rec.ExtraLicenseStates = append(rec.ExtraLicenseStates, st)
				}
			}
		}
		if rec.ProviderID == "" {
			slog.WarnContext(ctx, "skipping roster row without provider id", "line", line)
			continue
		}
		recs = append(recs, rec)
	}

	slog.InfoContext(ctx, "roster parsed", "records", len(recs))
	return recs, nil
}

// resolveColumns maps canonical field names to column indexes using the
// synonym table.
func resolveColumns(header []string) map[string]int {
	lower := make(map[string]int, len(header))
	for i, h := range header {
		lower[strings.ToLower(strings.TrimSpace(h))] = i
	}

	cols := make(map[string]int)
	for canonical, syns := range columnSynonyms {
		for _, s := range syns {
			if i, ok := lower[s]; ok {
				cols[canonical] = i
				break
			}
		}
	}
	return cols
}
