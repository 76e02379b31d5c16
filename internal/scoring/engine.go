// Package scoring turns validation findings into per-provider scores and
// dataset-wide statistics.
package scoring

import (
	"sort"

	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/validate"
)

// Score computes one ProviderScore per record plus the dataset summary.
//
// Penalties are all-or-nothing per group: a provider with three license
// findings pays the license penalty once. The final score is
// 100 - totalPenalty clamped to [0,100], so a provider hit in every group
// can reach 0 but never leave the range. Scoring the same inputs twice
// yields identical output.
func Score(recs []model.ProviderRecord, issues []model.Issue, weights Weights) ([]model.ProviderScore, model.DatasetSummary, error) {
	if err := weights.Validate(); err != nil {
		return nil, model.DatasetSummary{}, err
	}

	byProvider := make(map[string][]model.Issue)
	for _, iss := range issues {
		byProvider[iss.ProviderID] = append(byProvider[iss.ProviderID], iss)
	}

	stateOf := make(map[string]string, len(recs))
	specialtyOf := make(map[string]string, len(recs))
	for _, rec := range recs {
		stateOf[rec.ProviderID] = rec.State
		specialtyOf[rec.ProviderID] = rec.Specialty
	}

	scores := make([]model.ProviderScore, 0, len(recs))
	var total float64
	for _, rec := range recs {
		provIssues := byProvider[rec.ProviderID]

		groups := make(map[model.PenaltyGroup]bool)
		for _, iss := range provIssues {
			groups[iss.Category.Group()] = true
		}

		var penalty float64
		for g := range groups {
			penalty += weights.For(g) * 100
		}

		final := 100 - penalty
		if final < 0 {
			final = 0
		}
		if final > 100 {
			final = 100
		}

		validate.SortIssues(provIssues)
		scores = append(scores, model.ProviderScore{
			ProviderID: rec.ProviderID,
			RawPenalty: penalty,
			FinalScore: final,
			Issues:     provIssues,
		})
		total += final
	}

	sort.Slice(scores, func(i, j int) bool {
		return scores[i].ProviderID < scores[j].ProviderID
	})

	summary := model.DatasetSummary{
		ProviderCount:     len(recs),
		IssuesByCategory:  make(map[model.IssueCategory]int),
		IssuesByState:     make(map[string]int),
		IssuesBySpecialty: make(map[string]int),
	}
	if len(recs) > 0 {
		summary.OverallScore = total / float64(len(recs))
	}
	for _, iss := range issues {
		summary.IssuesByCategory[iss.Category]++
		if st := stateOf[iss.ProviderID]; st != "" {
			summary.IssuesByState[st]++
		}
		if sp := specialtyOf[iss.ProviderID]; sp != "" {
			summary.IssuesBySpecialty[sp]++
		}
	}

	return scores, summary, nil
}
