package model

import "time"

// ProviderRecord is one roster row for a single provider. Records are
// immutable once ingested; credential fields are kept exactly as they
// arrived and validators own the parsing (unparsable values become
// findings, never errors).
type ProviderRecord struct {
	ProviderID string
	FullName   string
	Specialty  string
	State      string // practice state

	Phone string

	NPI           string
	LicenseNumber string
	LicenseState  string
	LicenseExpiry string // raw date string as ingested

	// Additional states the provider holds licenses in, used to reconcile
	// a practice state that differs from the primary license state.
	ExtraLicenseStates []string
}

// IngestionBatch groups the records of a single roster upload.
type IngestionBatch struct {
	ID          int64
	Name        string
	RecordCount int
	CreatedAt   time.Time
}
