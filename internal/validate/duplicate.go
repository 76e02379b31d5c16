package validate

import (
	"fmt"
	"strings"
	"time"

	"rosterlens.app/engine/internal/model"
)

// MatchFunc decides whether two records describe the same provider. The
// predicate is pluggable so the matching policy can evolve independently
// of the clustering and flagging mechanics.
type MatchFunc func(a, b model.ProviderRecord) bool

// ExactMatch is the default predicate: two records match when they share
// a non-empty NPI, or when their normalized name and specialty both match.
func ExactMatch(a, b model.ProviderRecord) bool {
	npiA := strings.TrimSpace(a.NPI)
	npiB := strings.TrimSpace(b.NPI)
	if npiA != "" && npiA == npiB {
		return true
	}

	nameA := normalize(a.FullName)
	nameB := normalize(b.FullName)
	if nameA == "" || nameA != nameB {
		return false
	}
	return normalize(a.Specialty) == normalize(b.Specialty)
}

// DuplicateValidator flags every member of a duplicate cluster. Flagging
// is symmetric: if A duplicates B, both receive exactly one issue.
type DuplicateValidator struct {
	match MatchFunc
}

func NewDuplicateValidator(match MatchFunc) *DuplicateValidator {
	if match == nil {
		match = ExactMatch
	}
	return &DuplicateValidator{match: match}
}

func (*DuplicateValidator) Name() string { return "duplicate" }

func (v *DuplicateValidator) CheckAll(recs []model.ProviderRecord, _ time.Time) []model.Issue {
	// Union-find over record indexes; pairs connect into clusters.
	parent := make([]int, len(recs))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		parent[find(i)] = find(j)
	}

	for i := 0; i < len(recs); i++ {
		for j := i + 1; j < len(recs); j++ {
			if v.match(recs[i], recs[j]) {
				union(i, j)
			}
		}
	}

	clusterSize := make(map[int]int)
	for i := range recs {
		clusterSize[find(i)]++
	}

	var issues []model.Issue
	for i, rec := range recs {
		n := clusterSize[find(i)]
		if n < 2 {
			continue
		}
		issues = append(issues, model.NewIssue(rec.ProviderID, model.CategoryDuplicate,
			fmt.Sprintf("matches %d other roster record(s)", n-1)))
	}
	return issues
}
