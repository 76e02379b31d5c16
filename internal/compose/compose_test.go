package compose_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rosterlens.app/engine/common/llm"
	"rosterlens.app/engine/internal/compose"
	"rosterlens.app/engine/internal/dataset"
	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/nlu"
)

var now = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func testSnapshot() *dataset.Snapshot {
	return &dataset.Snapshot{
		BatchID: 1,
		Records: []model.ProviderRecord{
			{ProviderID: "P1", FullName: "Jane Smith", Specialty: "Cardiology", State: "NY", LicenseExpiry: "2026-01-31"},
			{ProviderID: "P2", FullName: "Bob Jones", Specialty: "Oncology", State: "CA", LicenseExpiry: "2025-07-01"},
			{ProviderID: "P3", FullName: "Ann Lee", Specialty: "Oncology", State: "CA", LicenseExpiry: "2024-01-01"},
		},
		Issues: []model.Issue{
			model.NewIssue("P3", model.CategoryLicenseExpired, "license expired on 2024-01-01"),
			model.NewIssue("P3", model.CategoryNPIMissing, "no NPI on file"),
			model.NewIssue("P2", model.CategoryPhoneFormat, "bad phone"),
		},
		Summary: model.DatasetSummary{
			OverallScore:  68.33,
			ProviderCount: 3,
			IssuesByCategory: map[model.IssueCategory]int{
				model.CategoryLicenseExpired: 1,
				model.CategoryNPIMissing:     1,
				model.CategoryPhoneFormat:    1,
			},
			IssuesByState:     map[string]int{"CA": 3},
			IssuesBySpecialty: map[string]int{"Oncology": 3},
		},
	}
}

func resolution(intent model.Intent) nlu.Resolution {
	return nlu.Resolution{Intent: intent, Method: model.MethodRule, Confidence: 0.9}
}

var _ = Describe("Execute", func() {
	snap := testSnapshot()

	It("counts providers with expired licenses", func() {
		res := compose.Execute(snap, resolution(model.IntentCountExpiredLicenses), now)
		Expect(res.Count).To(Equal(1))
		Expect(res.Providers).To(HaveLen(1))
		Expect(res.Providers[0].FullName).To(Equal("Ann Lee"))
	})

	It("reports the overall score", func() {
		res := compose.Execute(snap, resolution(model.IntentOverallScore), now)
		Expect(res.Score).To(Equal(68.33))
		Expect(res.Count).To(Equal(3))
	})

	It("breaks issues down by specialty, worst first", func() {
		res := compose.Execute(snap, resolution(model.IntentQualityBySpecialty), now)
		Expect(res.Breakdown).To(Equal([]compose.BreakdownRow{{Key: "Oncology", Count: 3}}))
	})

	It("filters licenses expiring inside the window", func() {
		r := resolution(model.IntentExpiringSoon)
		r.Params.WindowDays = 30
		res := compose.Execute(snap, r, now)
		Expect(res.Providers).To(HaveLen(1))
		Expect(res.Providers[0].ProviderID).To(Equal("P2"))
		Expect(res.WindowDays).To(Equal(30))
	})

	It("excludes already-expired licenses from the expiring window", func() {
		r := resolution(model.IntentExpiringSoon)
		r.Params.WindowDays = 3650
		res := compose.Execute(snap, r, now)
		for _, p := range res.Providers {
			Expect(p.ProviderID).NotTo(Equal("P3"))
		}
	})

	It("searches providers by case-insensitive name fragment", func() {
		r := resolution(model.IntentProviderSearch)
		r.Params.ProviderName = "jane"
		res := compose.Execute(snap, r, now)
		Expect(res.Providers).To(HaveLen(1))
		Expect(res.Providers[0].ProviderID).To(Equal("P1"))
	})

	It("lists each provider once in the update list", func() {
		res := compose.Execute(snap, resolution(model.IntentUpdateList), now)
		Expect(res.Count).To(Equal(2))
	})

	It("returns an empty result when no snapshot is loaded", func() {
		res := compose.Execute(nil, resolution(model.IntentOverallScore), now)
		Expect(res.Count).To(BeZero())
		Expect(res.Score).To(BeZero())
	})
})

var _ = Describe("RenderTemplate", func() {
	It("produces a non-empty answer for every known intent", func() {
		for _, intent := range model.KnownIntents() {
			text := compose.RenderTemplate(compose.Result{Intent: intent})
			Expect(text).NotTo(BeEmpty(), "intent %s", intent)
		}
	})

	It("offers example questions for an unknown query", func() {
		text := compose.RenderTemplate(compose.Result{Intent: model.IntentUnknown})
		Expect(text).To(ContainSubstring("How many providers have expired licenses?"))
		Expect(text).To(ContainSubstring("overall data quality score"))
	})

	It("names the flagged providers", func() {
		text := compose.RenderTemplate(compose.Result{
			Intent: model.IntentCountExpiredLicenses,
			Count:  1,
			Providers: []compose.ProviderBrief{
				{ProviderID: "P3", FullName: "Ann Lee", Specialty: "Oncology", Detail: "license expired on 2024-01-01"},
			},
		})
		Expect(text).To(ContainSubstring("1 provider has an expired license"))
		Expect(text).To(ContainSubstring("Ann Lee"))
		Expect(text).To(ContainSubstring("2024-01-01"))
	})
})

// fakeGenerator returns a canned structured answer or error. With
// failFirst set the error applies to the first call only.
type fakeGenerator struct {
	answer    string
	err       error
	failFirst bool
	calls     int
}

func (f *fakeGenerator) Generate(_ context.Context, _ llm.Request, result any) (*llm.Response, error) {
	f.calls++
	if f.err != nil && (!f.failFirst || f.calls == 1) {
		return nil, f.err
	}
	payload, _ := json.Marshal(map[string]string{"answer": f.answer})
	if err := json.Unmarshal(payload, result); err != nil {
		return nil, err
	}
	return &llm.Response{PromptTokens: 10, CompletionTokens: 5}, nil
}

func (f *fakeGenerator) Model() string { return "fake-generator" }

var _ = Describe("Composer", func() {
	ctx := context.Background()
	result := compose.Result{Intent: model.IntentOverallScore, Score: 68.33, Count: 3}

	It("uses the generated answer when generation succeeds", func() {
		c := compose.NewComposer(&fakeGenerator{answer: "Your roster scores 68.3 out of 100."}, 256)
		text, generated := c.Compose(ctx, "how are we doing?", result)
		Expect(generated).To(BeTrue())
		Expect(text).To(Equal("Your roster scores 68.3 out of 100."))
	})

	It("falls back to the template when generation fails", func() {
		c := compose.NewComposer(&fakeGenerator{err: errors.New("model offline")}, 256)
		text, generated := c.Compose(ctx, "how are we doing?", result)
		Expect(generated).To(BeFalse())
		Expect(text).To(ContainSubstring("68.3"))
	})

	It("retries once on a transient error and keeps the second answer", func() {
		gen := &fakeGenerator{answer: "All good.", err: errors.New("connection reset"), failFirst: true}
		c := compose.NewComposer(gen, 256)
		text, generated := c.Compose(ctx, "how are we doing?", result)
		Expect(generated).To(BeTrue())
		Expect(text).To(Equal("All good."))
		Expect(gen.calls).To(Equal(2))
	})

	It("does not retry a cancelled request", func() {
		gen := &fakeGenerator{err: fmt.Errorf("generate: %w", context.Canceled)}
		c := compose.NewComposer(gen, 256)
		_, generated := c.Compose(ctx, "how are we doing?", result)
		Expect(generated).To(BeFalse())
		Expect(gen.calls).To(Equal(1))
	})

	It("rejects an empty generated answer", func() {
		c := compose.NewComposer(&fakeGenerator{answer: "   "}, 256)
		text, generated := c.Compose(ctx, "how are we doing?", result)
		Expect(generated).To(BeFalse())
		Expect(text).NotTo(BeEmpty())
	})

	It("is template-only without a generator", func() {
		c := compose.NewComposer(nil, 256)
		text, generated := c.Compose(ctx, "how are we doing?", result)
		Expect(generated).To(BeFalse())
		Expect(text).NotTo(BeEmpty())
	})
})

var _ = Describe("Followups", func() {
	It("suggests next questions for every known intent", func() {
		for _, intent := range model.KnownIntents() {
			Expect(compose.Followups(intent)).NotTo(BeEmpty(), "intent %s", intent)
		}
	})

	It("offers starter questions for an unknown intent", func() {
		s := compose.Followups(model.IntentUnknown)
		Expect(s).To(ContainElement("What's our overall data quality score?"))
	})

	It("returns a copy callers may mutate", func() {
		first := compose.Followups(model.IntentPhoneIssues)
		first[0] = "changed"
		Expect(compose.Followups(model.IntentPhoneIssues)[0]).NotTo(Equal("changed"))
	})
})
