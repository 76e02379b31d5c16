package model

// ProviderScore is the scored view of a single provider, derived entirely
// from that provider's issues. Recomputed whenever the dataset or weights
// change, never persisted independently of its source issues.
type ProviderScore struct {
	ProviderID string
	RawPenalty float64
	FinalScore float64 // 100 - RawPenalty, clamped to [0,100]

	// Issues ordered by severity (highest first), then category.
	Issues []Issue
}

// DatasetSummary holds dataset-level statistics, recomputed on demand.
type DatasetSummary struct {
	OverallScore  float64 // mean of final scores; 0 for an empty dataset
	ProviderCount int

	IssuesByCategory  map[IssueCategory]int
	IssuesByState     map[string]int
	IssuesBySpecialty map[string]int
}
