package nlu_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rosterlens.app/engine/internal/compose"
	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/nlu"
)

// fakeEmbedder returns canned vectors. Exemplar texts embed to distinct
// unit axes; queries embed to whatever vector the test sets.
type fakeEmbedder struct {
	queryVec []float64
	err      error
	calls    int
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	dim := len(model.KnownIntents())
	out := make([][]float64, len(texts))
	for i := range texts {
		vec := make([]float64, dim)
		if len(texts) > 1 {
			// Exemplar batch: one axis per intent.
			vec[i] = 1
		} else {
			copy(vec, f.queryVec)
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Model() string { return "fake-embedder" }

func axis(i int, weight float64) []float64 {
	vec := make([]float64, len(model.KnownIntents()))
	vec[i] = weight
	return vec
}

var _ = Describe("Classifier", func() {
	ctx := context.Background()

	Describe("rule stage only", func() {
		classifier := nlu.NewClassifier(nil)

		DescribeTable("resolves the documented queries",
			func(query string, want model.Intent) {
				res := classifier.Classify(ctx, query)
				Expect(res.Intent).To(Equal(want))
				Expect(res.Method).To(Equal(model.MethodRule))
			},
			Entry("expired licenses", "How many providers have expired licenses?", model.IntentCountExpiredLicenses),
			Entry("issues by specialty", "Show me quality issues by specialty.", model.IntentQualityBySpecialty),
			Entry("overall score", "What's our overall data quality score?", model.IntentOverallScore),
			Entry("phone issues", "Show me phone formatting issues.", model.IntentPhoneIssues),
			Entry("missing NPI", "Which providers are missing an NPI?", model.IntentMissingNPI),
			Entry("duplicates", "Are there any duplicate provider records?", model.IntentDuplicateSummary),
			Entry("state summary", "Give me a summary of issues by state.", model.IntentStateBreakdown),
			Entry("expiring soon", "Which licenses expire in the next 30 days?", model.IntentExpiringSoon),
			Entry("multi state", "Who is practicing in multiple states?", model.IntentMultiStateLicense),
			Entry("update list", "Export the list of providers requiring credential updates.", model.IntentUpdateList),
			Entry("name search", "Find a provider named Jane Smith", model.IntentProviderSearch),
		)

		It("resolves gibberish to the unknown intent, never an error", func() {
			res := classifier.Classify(ctx, "purple monkey dishwasher")
			Expect(res.Intent).To(Equal(model.IntentUnknown))
			Expect(res.Method).To(Equal(model.MethodUnknown))
			Expect(res.Confidence).To(BeZero())
		})

		It("extracts the days window", func() {
			res := classifier.Classify(ctx, "Which licenses expire in the next 45 days?")
			Expect(res.Intent).To(Equal(model.IntentExpiringSoon))
			Expect(res.Params.WindowDays).To(Equal(45))
		})

		It("defaults the days window when absent", func() {
			res := classifier.Classify(ctx, "Show me licenses expiring soon")
			Expect(res.Intent).To(Equal(model.IntentExpiringSoon))
			Expect(res.Params.WindowDays).To(Equal(90))
		})

		It("extracts the provider name", func() {
			res := classifier.Classify(ctx, "Find a provider named Jane Smith")
			Expect(res.Intent).To(Equal(model.IntentProviderSearch))
			Expect(res.Params.ProviderName).To(Equal("Jane Smith"))
		})
	})

	Describe("semantic stage", func() {
		It("wins over the rule stage when similarity clears the threshold", func() {
			emb := &fakeEmbedder{}
			// Align the query with the phone_issues exemplar axis.
			for i, in := range model.KnownIntents() {
				if in == model.IntentPhoneIssues {
					emb.queryVec = axis(i, 0.9)
				}
			}
			classifier := nlu.NewClassifier(nlu.NewSemanticMatcher(emb, 0.5))

			res := classifier.Classify(ctx, "anything at all")
			Expect(res.Intent).To(Equal(model.IntentPhoneIssues))
			Expect(res.Method).To(Equal(model.MethodSemantic))
			Expect(res.Confidence).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("passes to the rule stage below the threshold", func() {
			emb := &fakeEmbedder{queryVec: make([]float64, len(model.KnownIntents()))}
			classifier := nlu.NewClassifier(nlu.NewSemanticMatcher(emb, 0.5))

			res := classifier.Classify(ctx, "Show me phone formatting issues.")
			Expect(res.Intent).To(Equal(model.IntentPhoneIssues))
			Expect(res.Method).To(Equal(model.MethodRule))
		})

		It("degrades to the rule stage when embedding fails", func() {
			emb := &fakeEmbedder{err: errors.New("model offline")}
			classifier := nlu.NewClassifier(nlu.NewSemanticMatcher(emb, 0.5))

			res := classifier.Classify(ctx, "Show me phone formatting issues.")
			Expect(res.Intent).To(Equal(model.IntentPhoneIssues))
			Expect(res.Method).To(Equal(model.MethodRule))
		})

		It("does not retry exemplar embedding after the first failure", func() {
			emb := &fakeEmbedder{err: errors.New("model offline")}
			classifier := nlu.NewClassifier(nlu.NewSemanticMatcher(emb, 0.5))

			classifier.Classify(ctx, "first query")
			classifier.Classify(ctx, "second query")
			Expect(emb.calls).To(Equal(1))
		})
	})
})

var _ = Describe("Suggested question coverage", func() {
	It("resolves every suggested follow-up question without a model", func() {
		classifier := nlu.NewClassifier(nil)
		for _, intent := range append(model.KnownIntents(), model.IntentUnknown) {
			for _, q := range compose.Followups(intent) {
				res := classifier.Classify(context.Background(), q)
				Expect(res.Method).To(Equal(model.MethodRule), "question %q", q)
			}
		}
	})
})
