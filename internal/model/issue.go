package model

// IssueCategory identifies the kind of data-quality defect found on a record.
type IssueCategory string

const (
	CategoryLicenseExpired IssueCategory = "license_expired"
	CategoryLicenseMissing IssueCategory = "license_missing"
	CategoryNPIMissing     IssueCategory = "npi_missing"
	CategoryNPIInvalid     IssueCategory = "npi_invalid"
	CategoryPhoneFormat    IssueCategory = "phone_format_invalid"
	CategoryDuplicate      IssueCategory = "duplicate_provider"
	CategoryStateMismatch  IssueCategory = "state_mismatch"
)

// PenaltyGroup is one of the five weighted groups used for scoring.
type PenaltyGroup string

const (
	GroupLicense    PenaltyGroup = "license"
	GroupNPI        PenaltyGroup = "npi"
	GroupDuplicates PenaltyGroup = "duplicates"
	GroupContact    PenaltyGroup = "contact_format"
	GroupMismatch   PenaltyGroup = "mismatches"
)

// Group maps the category into its penalty group.
func (c IssueCategory) Group() PenaltyGroup {
	switch c {
	case CategoryLicenseExpired, CategoryLicenseMissing:
		return GroupLicense
	case CategoryNPIMissing, CategoryNPIInvalid:
		return GroupNPI
	case CategoryDuplicate:
		return GroupDuplicates
	case CategoryPhoneFormat:
		return GroupContact
	}
	return GroupMismatch
}

type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	}
	return "low"
}

// SeverityFor derives severity from the category. Severity is an ordering
// and display property; scoring only looks at penalty groups.
func SeverityFor(c IssueCategory) Severity {
	switch c {
	case CategoryLicenseExpired, CategoryLicenseMissing, CategoryNPIMissing, CategoryNPIInvalid:
		return SeverityHigh
	case CategoryDuplicate, CategoryPhoneFormat:
		return SeverityMedium
	}
	return SeverityLow
}

// Issue is a single detected data-quality defect on one provider record.
// Issues are produced fresh on each validation pass and never mutated.
type Issue struct {
	ProviderID string
	Category   IssueCategory
	Severity   Severity
	Detail     string
}

// NewIssue builds an issue with severity derived from the category.
func NewIssue(providerID string, category IssueCategory, detail string) Issue {
	return Issue{
		ProviderID: providerID,
		Category:   category,
		Severity:   SeverityFor(category),
		Detail:     detail,
	}
}
