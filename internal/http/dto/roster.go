package dto

import "time"

type IngestRosterRequest struct {
	Name    string                  `json:"name"`
	Records []ProviderRecordRequest `json:"records" binding:"required"`
}

type ProviderRecordRequest struct {
	ProviderID         string   `json:"provider_id" binding:"required"`
	FullName           string   `json:"full_name"`
	Specialty          string   `json:"specialty"`
	State              string   `json:"state"`
	Phone              string   `json:"phone"`
	NPI                string   `json:"npi"`
	LicenseNumber      string   `json:"license_number"`
	LicenseState       string   `json:"license_state"`
	LicenseExpiry      string   `json:"license_expiry"`
	ExtraLicenseStates []string `json:"extra_license_states"`
}

type IngestRosterResponse struct {
	BatchID         int64   `json:"batch_id"`
	Name            string  `json:"name"`
	RecordCount     int     `json:"record_count"`
	IssueCount      int     `json:"issue_count"`
	OverallScore    float64 `json:"overall_score"`
	SnapshotVersion int64   `json:"snapshot_version"`
}

type RevalidateRosterResponse struct {
	BatchID  int64 `json:"batch_id"`
	Enqueued bool  `json:"enqueued"`
}

type IssueResponse struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

type ProviderScoreResponse struct {
	ProviderID string          `json:"provider_id"`
	RawPenalty float64         `json:"raw_penalty"`
	FinalScore float64         `json:"final_score"`
	Issues     []IssueResponse `json:"issues"`
}

type ScoreListResponse struct {
	BatchID int64                   `json:"batch_id"`
	Scores  []ProviderScoreResponse `json:"scores"`
}

type BatchResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	RecordCount int       `json:"record_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type BatchListResponse struct {
	Batches []BatchResponse `json:"batches"`
}

type BatchDetailResponse struct {
	Batch             BatchResponse  `json:"batch"`
	OverallScore      float64        `json:"overall_score"`
	ProviderCount     int            `json:"provider_count"`
	IssuesByCategory  map[string]int `json:"issues_by_category"`
	IssuesByState     map[string]int `json:"issues_by_state"`
	IssuesBySpecialty map[string]int `json:"issues_by_specialty"`
}

type ProviderRecordResponse struct {
	ProviderID         string   `json:"provider_id"`
	FullName           string   `json:"full_name"`
	Specialty          string   `json:"specialty"`
	State              string   `json:"state"`
	Phone              string   `json:"phone"`
	NPI                string   `json:"npi"`
	LicenseNumber      string   `json:"license_number"`
	LicenseState       string   `json:"license_state"`
	LicenseExpiry      string   `json:"license_expiry"`
	ExtraLicenseStates []string `json:"extra_license_states"`
}

type ProviderDetailResponse struct {
	Record ProviderRecordResponse `json:"record"`
	Score  ProviderScoreResponse  `json:"score"`
}

type BatchIssuesResponse struct {
	BatchID int64                `json:"batch_id"`
	Issues  []BatchIssueResponse `json:"issues"`
}

type BatchIssueResponse struct {
	ProviderID string `json:"provider_id"`
	Category   string `json:"category"`
	Severity   string `json:"severity"`
	Detail     string `json:"detail"`
}

type SummaryResponse struct {
	BatchID           int64          `json:"batch_id"`
	OverallScore      float64        `json:"overall_score"`
	ProviderCount     int            `json:"provider_count"`
	IssuesByCategory  map[string]int `json:"issues_by_category"`
	IssuesByState     map[string]int `json:"issues_by_state"`
	IssuesBySpecialty map[string]int `json:"issues_by_specialty"`
	ComputedAt        time.Time      `json:"computed_at"`
}
