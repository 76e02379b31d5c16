// Package validate holds the data-quality rules applied to provider
// records. Validators are pure and independent: execution order never
// affects output, and malformed input becomes a finding, not an error.
package validate

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"rosterlens.app/engine/internal/model"
)

// RecordValidator checks a single record against one rule.
type RecordValidator interface {
	Name() string
	Check(rec model.ProviderRecord, now time.Time) []model.Issue
}

// DatasetValidator checks rules that need the full record set, such as
// duplicate detection.
type DatasetValidator interface {
	Name() string
	CheckAll(recs []model.ProviderRecord, now time.Time) []model.Issue
}

// Runner executes a fixed validator set over a record batch.
type Runner struct {
	record  []RecordValidator
	dataset []DatasetValidator
}

// NewRunner builds the default rule set. The duplicate match predicate is
// pluggable; pass nil for the default exact-match predicate.
func NewRunner(match MatchFunc) *Runner {
	return &Runner{
		record: []RecordValidator{
			LicenseValidator{},
			NPIValidator{},
			PhoneValidator{},
			StateValidator{},
		},
		dataset: []DatasetValidator{
			NewDuplicateValidator(match),
		},
	}
}

// Run validates every record and returns the combined findings in a
// deterministic order. The same inputs always produce the same output.
func (r *Runner) Run(ctx context.Context, recs []model.ProviderRecord, now time.Time) []model.Issue {
	var issues []model.Issue

	for _, rec := range recs {
		for _, v := range r.record {
			issues = append(issues, v.Check(rec, now)...)
		}
	}
	for _, v := range r.dataset {
		issues = append(issues, v.CheckAll(recs, now)...)
	}

	SortIssues(issues)

	slog.DebugContext(ctx, "validation pass complete",
		"records", len(recs),
		"issues", len(issues))

	return issues
}

// SortIssues orders issues by severity (highest first), then category,
// then provider, so repeated passes are bit-identical.
func SortIssues(issues []model.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Severity != issues[j].Severity {
			return issues[i].Severity > issues[j].Severity
		}
		if issues[i].Category != issues[j].Category {
			return issues[i].Category < issues[j].Category
		}
		return issues[i].ProviderID < issues[j].ProviderID
	})
}

// normalize lowercases and collapses internal whitespace for comparisons.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
