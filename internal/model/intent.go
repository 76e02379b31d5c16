package model

// Intent is the classified purpose of a natural-language query, drawn from
// a closed enumeration. Resolved per query, never persisted.
type Intent string

const (
	IntentCountExpiredLicenses Intent = "count_expired_licenses"
	IntentOverallScore         Intent = "overall_score"
	IntentQualityBySpecialty   Intent = "quality_by_specialty"
	IntentPhoneIssues          Intent = "phone_issues"
	IntentMissingNPI           Intent = "missing_npi"
	IntentDuplicateSummary     Intent = "duplicate_summary"
	IntentStateBreakdown       Intent = "state_breakdown"
	IntentExpiringSoon         Intent = "expiring_soon"
	IntentMultiStateLicense    Intent = "multi_state_license"
	IntentProviderSearch       Intent = "provider_search"
	IntentUpdateList           Intent = "update_list"
	IntentUnknown              Intent = "unknown"
)

// KnownIntents lists every resolvable intent in a stable order. Unknown is
// excluded: it is the absence of a resolution, not a query kind.
func KnownIntents() []Intent {
	return []Intent{
		IntentCountExpiredLicenses,
		IntentOverallScore,
		IntentQualityBySpecialty,
		IntentPhoneIssues,
		IntentMissingNPI,
		IntentDuplicateSummary,
		IntentStateBreakdown,
		IntentExpiringSoon,
		IntentMultiStateLicense,
		IntentProviderSearch,
		IntentUpdateList,
	}
}

// Method records which classifier stage produced a resolution.
type Method string

const (
	MethodSemantic Method = "semantic"
	MethodRule     Method = "rule"
	MethodUnknown  Method = "unknown"
)

// QueryParams carries the parameters some intents extract from the query
// text. Zero values mean "not supplied"; intents apply their own defaults.
type QueryParams struct {
	WindowDays   int    // expiring_soon: look-ahead window
	ProviderName string // provider_search: name fragment
}
