package scoring_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/scoring"
)

func rec(id string) model.ProviderRecord {
	return model.ProviderRecord{ProviderID: id, State: "NY", Specialty: "Cardiology"}
}

var _ = Describe("Weights", func() {
	It("defaults sum to one", func() {
		Expect(scoring.DefaultWeights().Validate()).To(Succeed())
	})

	It("rejects fractions that do not sum to one", func() {
		w := scoring.DefaultWeights()
		w.License = 0.5
		err := w.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(scoring.ErrInvalidWeights{}))
	})

	It("tolerates float drift", func() {
		w := scoring.Weights{License: 0.1, NPI: 0.2, Duplicates: 0.3, Contact: 0.2, Mismatch: 0.2}
		Expect(w.Validate()).To(Succeed())
	})

	It("rejects a negative fraction even when the sum is one", func() {
		w := scoring.Weights{License: 1.10, NPI: -0.10}
		err := w.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(scoring.ErrInvalidWeights{}))
	})

	It("rejects a fraction above one", func() {
		w := scoring.Weights{License: 1.5, NPI: -0.5}
		Expect(w.Validate()).To(HaveOccurred())
	})
})

var _ = Describe("Score", func() {
	weights := scoring.DefaultWeights()

	It("rejects invalid weights instead of scoring", func() {
		bad := scoring.Weights{License: 1, NPI: 1}
		_, _, err := scoring.Score([]model.ProviderRecord{rec("P1")}, nil, bad)
		Expect(err).To(HaveOccurred())
	})

	It("gives a provider with no issues a perfect score", func() {
		scores, summary, err := scoring.Score([]model.ProviderRecord{rec("P1")}, nil, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(scores).To(HaveLen(1))
		Expect(scores[0].FinalScore).To(Equal(100.0))
		Expect(scores[0].RawPenalty).To(BeZero())
		Expect(summary.OverallScore).To(Equal(100.0))
	})

	It("charges each penalty group once regardless of issue count", func() {
		issues := []model.Issue{
			model.NewIssue("P1", model.CategoryLicenseExpired, "expired"),
			model.NewIssue("P1", model.CategoryLicenseMissing, "also missing"),
		}
		scores, _, err := scoring.Score([]model.ProviderRecord{rec("P1")}, issues, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(scores[0].RawPenalty).To(BeNumerically("~", 35, 1e-9))
		Expect(scores[0].FinalScore).To(BeNumerically("~", 65, 1e-9))
	})

	It("sums penalties across groups and clamps at zero", func() {
		issues := []model.Issue{
			model.NewIssue("P1", model.CategoryLicenseExpired, ""),
			model.NewIssue("P1", model.CategoryNPIMissing, ""),
			model.NewIssue("P1", model.CategoryDuplicate, ""),
			model.NewIssue("P1", model.CategoryPhoneFormat, ""),
			model.NewIssue("P1", model.CategoryStateMismatch, ""),
		}
		scores, _, err := scoring.Score([]model.ProviderRecord{rec("P1")}, issues, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(scores[0].RawPenalty).To(BeNumerically("~", 100, 1e-9))
		Expect(scores[0].FinalScore).To(BeZero())
	})

	It("refuses a weight mix that could push a score above 100", func() {
		bad := scoring.Weights{License: 1.10, NPI: -0.10}
		issues := []model.Issue{model.NewIssue("P1", model.CategoryNPIMissing, "")}
		_, _, err := scoring.Score([]model.ProviderRecord{rec("P1")}, issues, bad)
		Expect(err).To(BeAssignableToTypeOf(scoring.ErrInvalidWeights{}))
	})

	It("never raises a score when another issue is added", func() {
		recs := []model.ProviderRecord{rec("P1")}
		base := []model.Issue{model.NewIssue("P1", model.CategoryLicenseExpired, "expired")}

		scores, _, err := scoring.Score(recs, base, weights)
		Expect(err).NotTo(HaveOccurred())
		before := scores[0].FinalScore

		sameGroup := []model.Issue{
			model.NewIssue("P1", model.CategoryLicenseExpired, "expired"),
			model.NewIssue("P1", model.CategoryLicenseMissing, "also missing"),
		}
		scores, _, err = scoring.Score(recs, sameGroup, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(scores[0].FinalScore).To(BeNumerically("<=", before))

		newGroup := []model.Issue{
			model.NewIssue("P1", model.CategoryLicenseExpired, "expired"),
			model.NewIssue("P1", model.CategoryNPIMissing, "no npi"),
		}
		scores, _, err = scoring.Score(recs, newGroup, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(scores[0].FinalScore).To(BeNumerically("<", before))
	})

	It("keeps every final score within [0,100]", func() {
		recs := []model.ProviderRecord{rec("P1"), rec("P2"), rec("P3")}
		issues := []model.Issue{
			model.NewIssue("P2", model.CategoryLicenseExpired, ""),
			model.NewIssue("P3", model.CategoryLicenseExpired, ""),
			model.NewIssue("P3", model.CategoryNPIMissing, ""),
			model.NewIssue("P3", model.CategoryDuplicate, ""),
			model.NewIssue("P3", model.CategoryPhoneFormat, ""),
			model.NewIssue("P3", model.CategoryStateMismatch, ""),
		}
		scores, _, err := scoring.Score(recs, issues, weights)
		Expect(err).NotTo(HaveOccurred())
		for _, sc := range scores {
			Expect(sc.FinalScore).To(And(
				BeNumerically(">=", 0),
				BeNumerically("<=", 100),
			), "provider %s", sc.ProviderID)
		}
	})

	It("computes the documented three-provider dataset", func() {
		recs := []model.ProviderRecord{rec("P1"), rec("P2"), rec("P3")}
		issues := []model.Issue{
			model.NewIssue("P2", model.CategoryLicenseExpired, "expired"),
			model.NewIssue("P3", model.CategoryLicenseExpired, "expired"),
			model.NewIssue("P3", model.CategoryNPIMissing, "missing"),
		}

		scores, summary, err := scoring.Score(recs, issues, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(scores).To(HaveLen(3))

		byID := map[string]float64{}
		for _, sc := range scores {
			byID[sc.ProviderID] = sc.FinalScore
		}
		Expect(byID["P1"]).To(BeNumerically("~", 100, 1e-9))
		Expect(byID["P2"]).To(BeNumerically("~", 65, 1e-9))
		Expect(byID["P3"]).To(BeNumerically("~", 40, 1e-9))
		Expect(summary.OverallScore).To(BeNumerically("~", 68.3333, 0.001))
	})

	It("is idempotent for identical inputs", func() {
		recs := []model.ProviderRecord{rec("P1"), rec("P2")}
		issues := []model.Issue{model.NewIssue("P2", model.CategoryPhoneFormat, "bad")}

		s1, sum1, err := scoring.Score(recs, issues, weights)
		Expect(err).NotTo(HaveOccurred())
		s2, sum2, err := scoring.Score(recs, issues, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(s2).To(Equal(s1))
		Expect(sum2).To(Equal(sum1))
	})

	It("returns scores sorted by provider id", func() {
		recs := []model.ProviderRecord{rec("P3"), rec("P1"), rec("P2")}
		scores, _, err := scoring.Score(recs, nil, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(scores[0].ProviderID).To(Equal("P1"))
		Expect(scores[1].ProviderID).To(Equal("P2"))
		Expect(scores[2].ProviderID).To(Equal("P3"))
	})

	It("summarizes an empty dataset as zero with empty breakdowns", func() {
		scores, summary, err := scoring.Score(nil, nil, weights)
		Expect(err).NotTo(HaveOccurred())
		Expect(scores).To(BeEmpty())
		Expect(summary.OverallScore).To(BeZero())
		Expect(summary.ProviderCount).To(BeZero())
		Expect(summary.IssuesByCategory).To(BeEmpty())
		Expect(summary.IssuesByState).To(BeEmpty())
		Expect(summary.IssuesBySpecialty).To(BeEmpty())
	})

	It("buckets issues by state and specialty of the affected provider", func() {
		r1 := rec("P1")
		r2 := model.ProviderRecord{ProviderID: "P2", State: "CA", Specialty: "Oncology"}
		issues := []model.Issue{
			model.NewIssue("P1", model.CategoryPhoneFormat, ""),
			model.NewIssue("P2", model.CategoryPhoneFormat, ""),
			model.NewIssue("P2", model.CategoryNPIMissing, ""),
		}

		_, summary, err := scoring.Score([]model.ProviderRecord{r1, r2}, issues, scoring.DefaultWeights())
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.IssuesByCategory[model.CategoryPhoneFormat]).To(Equal(2))
		Expect(summary.IssuesByState).To(Equal(map[string]int{"NY": 1, "CA": 2}))
		Expect(summary.IssuesBySpecialty).To(Equal(map[string]int{"Cardiology": 1, "Oncology": 2}))
	})
})
