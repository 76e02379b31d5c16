// Package compose turns a classified query into data and the data into a
// natural-language answer.
package compose

import (
	"sort"
	"strings"
	"time"

	"rosterlens.app/engine/internal/dataset"
	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/nlu"
	"rosterlens.app/engine/internal/validate"
)

// maxListedProviders caps how many providers a single answer names.
const maxListedProviders = 10

// ProviderBrief is the answer-facing slice of a provider record.
type ProviderBrief struct {
	ProviderID string `json:"provider_id"`
	FullName   string `json:"full_name"`
	Specialty  string `json:"specialty,omitempty"`
	State      string `json:"state,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// BreakdownRow is one bucket of a grouped count, ordered worst first.
type BreakdownRow struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Result is the deterministic data behind one answer. The composer renders
// it; it never goes back to the snapshot.
type Result struct {
	Intent     model.Intent
	Count      int
	Score      float64
	Providers  []ProviderBrief
	Breakdown  []BreakdownRow
	WindowDays int
	SearchName string
}

// Execute runs the query an intent maps to against the current snapshot.
// Every known intent has exactly one query; the unknown intent returns an
// empty result for the clarification template.
func Execute(snap *dataset.Snapshot, res nlu.Resolution, now time.Time) Result {
	out := Result{Intent: res.Intent}
	if snap == nil {
		return out
	}

	switch res.Intent {
	case model.IntentCountExpiredLicenses:
		out.Providers = providersWithIssue(snap, model.CategoryLicenseExpired)
		out.Count = len(out.Providers)

	case model.IntentOverallScore:
		out.Score = snap.Summary.OverallScore
		out.Count = snap.Summary.ProviderCount

	case model.IntentQualityBySpecialty:
		out.Breakdown = sortedBreakdown(snap.Summary.IssuesBySpecialty)
		out.Count = len(out.Breakdown)

	case model.IntentPhoneIssues:
		out.Providers = providersWithIssue(snap, model.CategoryPhoneFormat)
		out.Count = len(out.Providers)

	case model.IntentMissingNPI:
		out.Providers = providersWithIssue(snap, model.CategoryNPIMissing)
		out.Count = len(out.Providers)

	case model.IntentDuplicateSummary:
		out.Providers = providersWithIssue(snap, model.CategoryDuplicate)
		out.Count = len(out.Providers)

	case model.IntentStateBreakdown:
		out.Breakdown = sortedBreakdown(snap.Summary.IssuesByState)
		out.Count = len(out.Breakdown)

	case model.IntentExpiringSoon:
		out.WindowDays = res.Params.WindowDays
		out.Providers = expiringWithin(snap, now, res.Params.WindowDays)
		out.Count = len(out.Providers)

	case model.IntentMultiStateLicense:
		out.Providers = providersWithIssue(snap, model.CategoryStateMismatch)
		out.Count = len(out.Providers)

	case model.IntentProviderSearch:
		out.SearchName = res.Params.ProviderName
		out.Providers = searchByName(snap, res.Params.ProviderName)
		out.Count = len(out.Providers)

	case model.IntentUpdateList:
		out.Providers = providersWithAnyIssue(snap)
		out.Count = len(out.Providers)
	}

	if len(out.Providers) > maxListedProviders {
		out.Providers = out.Providers[:maxListedProviders]
	}
	return out
}

func brief(rec model.ProviderRecord, detail string) ProviderBrief {
	return ProviderBrief{
		ProviderID: rec.ProviderID,
		FullName:   rec.FullName,
		Specialty:  rec.Specialty,
		State:      rec.State,
		Detail:     detail,
	}
}

func recordsByID(snap *dataset.Snapshot) map[string]model.ProviderRecord {
	m := make(map[string]model.ProviderRecord, len(snap.Records))
	for _, rec := range snap.Records {
		m[rec.ProviderID] = rec
	}
	return m
}

func providersWithIssue(snap *dataset.Snapshot, cat model.IssueCategory) []ProviderBrief {
	recs := recordsByID(snap)
	seen := make(map[string]bool)
	var out []ProviderBrief
	for _, iss := range snap.Issues {
		if iss.Category != cat || seen[iss.ProviderID] {
			continue
		}
		seen[iss.ProviderID] = true
		out = append(out, brief(recs[iss.ProviderID], iss.Detail))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProviderID < out[j].ProviderID })
	return out
}

func providersWithAnyIssue(snap *dataset.Snapshot) []ProviderBrief {
	recs := recordsByID(snap)
	seen := make(map[string]bool)
	var out []ProviderBrief
	for _, iss := range snap.Issues {
		if seen[iss.ProviderID] {
			continue
		}
		seen[iss.ProviderID] = true
		out = append(out, brief(recs[iss.ProviderID], string(iss.Category)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProviderID < out[j].ProviderID })
	return out
}

func expiringWithin(snap *dataset.Snapshot, now time.Time, days int) []ProviderBrief {
	end := now.AddDate(0, 0, days)
	var out []ProviderBrief
	for _, rec := range snap.Records {
		exp, ok := validate.ParseDate(rec.LicenseExpiry)
		if !ok {
			continue
		}
		if !exp.Before(now) && !exp.After(end) {
			out = append(out, brief(rec, "license expires "+exp.Format("2006-01-02")))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProviderID < out[j].ProviderID })
	return out
}

func searchByName(snap *dataset.Snapshot, name string) []ProviderBrief {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	var out []ProviderBrief
	for _, rec := range snap.Records {
		if strings.Contains(strings.ToLower(rec.FullName), needle) {
			out = append(out, brief(rec, ""))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProviderID < out[j].ProviderID })
	return out
}

func sortedBreakdown(counts map[string]int) []BreakdownRow {
	rows := make([]BreakdownRow, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, BreakdownRow{Key: k, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}
