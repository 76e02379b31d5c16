package nlu

import (
	"context"
	"fmt"
	"math"
	"sync"

	"rosterlens.app/engine/common/llm"
	"rosterlens.app/engine/internal/model"
)

// exemplars maps each intent to a short description embedded once and
// compared against incoming queries.
var exemplars = map[model.Intent]string{
	model.IntentCountExpiredLicenses: "count expired licenses providers healthcare",
	model.IntentPhoneIssues:          "phone number format formatting issues problems",
	model.IntentMissingNPI:           "missing NPI number identifier provider",
	model.IntentDuplicateSummary:     "duplicate providers records same person",
	model.IntentOverallScore:         "overall quality score data assessment rating",
	model.IntentQualityBySpecialty:   "medical specialties most data quality issues problems",
	model.IntentStateBreakdown:       "state summary issues problems by location geography",
	model.IntentExpiringSoon:         "filter providers licenses expiring soon within days",
	model.IntentMultiStateLicense:    "providers multiple states single license",
	model.IntentUpdateList:           "export list providers needing credential updates",
	model.IntentProviderSearch:       "search find provider by name person individual",
}

// SemanticMatcher resolves intents by cosine similarity between the query
// embedding and per-intent exemplar embeddings. Exemplar embeddings are
// computed lazily on first use and cached for the process lifetime; if
// that first attempt fails, the stage stays degraded and later queries
// skip straight to the rule stage without retrying.
type SemanticMatcher struct {
	embedder  llm.Embedder
	threshold float64

	initOnce sync.Once
	initErr  error
	intents  []model.Intent
	vectors  [][]float64
}

func NewSemanticMatcher(embedder llm.Embedder, threshold float64) *SemanticMatcher {
	return &SemanticMatcher{embedder: embedder, threshold: threshold}
}

func (*SemanticMatcher) Name() string { return "semantic" }

func (m *SemanticMatcher) Resolve(ctx context.Context, query string) (Resolution, bool, error) {
	if err := m.ensureExemplars(ctx); err != nil {
		return Resolution{}, false, err
	}

	vecs, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return Resolution{}, false, fmt.Errorf("embed query: %w", err)
	}
	qv := vecs[0]

	best := -1
	bestSim := math.Inf(-1)
	for i, ev := range m.vectors {
		if sim := cosine(qv, ev); sim > bestSim {
			bestSim = sim
			best = i
		}
	}
	if best < 0 || bestSim < m.threshold {
		return Resolution{}, false, nil
	}

	intent := m.intents[best]
	return Resolution{
		Intent:     intent,
		Confidence: bestSim,
		Method:     model.MethodSemantic,
		Params:     ExtractParams(intent, query),
	}, true, nil
}

func (m *SemanticMatcher) ensureExemplars(ctx context.Context) error {
	m.initOnce.Do(func() {
		intents := model.KnownIntents()
		texts := make([]string, 0, len(intents))
		kept := make([]model.Intent, 0, len(intents))
		for _, in := range intents {
			if text, ok := exemplars[in]; ok {
				texts = append(texts, text)
				kept = append(kept, in)
			}
		}

		vecs, err := m.embedder.Embed(ctx, texts)
		if err != nil {
			m.initErr = fmt.Errorf("embed intent exemplars: %w", err)
			return
		}
		m.intents = kept
		m.vectors = vecs
	})
	return m.initErr
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
