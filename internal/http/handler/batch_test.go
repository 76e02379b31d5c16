package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rosterlens.app/engine/internal/http/handler"
	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/store"
)

// memStores backs the batch endpoints with a single stored batch.
type memStores struct {
	batch   model.IngestionBatch
	records []model.ProviderRecord
	issues  []model.Issue
	scores  []model.ProviderScore
	summary model.DatasetSummary
}

func (m *memStores) GetByID(_ context.Context, id int64) (*model.IngestionBatch, error) {
	if id != m.batch.ID {
		return nil, store.ErrNotFound
	}
	b := m.batch
	return &b, nil
}

func (m *memStores) GetLatest(context.Context) (*model.IngestionBatch, error) {
	b := m.batch
	return &b, nil
}

func (m *memStores) Create(context.Context, *model.IngestionBatch) error { return nil }

func (m *memStores) List(_ context.Context, limit int32) ([]model.IngestionBatch, error) {
	if limit < 1 {
		return nil, nil
	}
	return []model.IngestionBatch{m.batch}, nil
}

func (m *memStores) GetByBatchAndProviderID(_ context.Context, batchID int64, providerID string) (*model.ProviderRecord, error) {
	if batchID != m.batch.ID {
		return nil, store.ErrNotFound
	}
	for _, r := range m.records {
		if r.ProviderID == providerID {
			rec := r
			return &rec, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStores) CreateAll(context.Context, int64, []model.ProviderRecord) error { return nil }

func (m *memStores) ListByBatch(_ context.Context, batchID int64) ([]model.ProviderRecord, error) {
	if batchID != m.batch.ID {
		return nil, store.ErrNotFound
	}
	return m.records, nil
}

type memIssues struct{ s *memStores }

func (m memIssues) ReplaceForBatch(context.Context, int64, []model.Issue) error { return nil }

func (m memIssues) ListByBatch(_ context.Context, batchID int64) ([]model.Issue, error) {
	if batchID != m.s.batch.ID {
		return nil, store.ErrNotFound
	}
	return m.s.issues, nil
}

func (m memIssues) ListByProvider(_ context.Context, batchID int64, providerID string) ([]model.Issue, error) {
	var out []model.Issue
	for _, iss := range m.s.issues {
		if iss.ProviderID == providerID {
			out = append(out, iss)
		}
	}
	return out, nil
}

type memScores struct{ s *memStores }

func (m memScores) ReplaceForBatch(context.Context, int64, []model.ProviderScore, model.DatasetSummary) error {
	return nil
}

func (m memScores) GetByProvider(_ context.Context, batchID int64, providerID string) (*model.ProviderScore, error) {
	for _, sc := range m.s.scores {
		if sc.ProviderID == providerID {
			out := sc
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memScores) ListByBatch(_ context.Context, batchID int64) ([]model.ProviderScore, error) {
	if batchID != m.s.batch.ID {
		return nil, store.ErrNotFound
	}
	return m.s.scores, nil
}

func (m memScores) GetSummary(_ context.Context, batchID int64) (*model.DatasetSummary, error) {
	if batchID != m.s.batch.ID {
		return nil, store.ErrNotFound
	}
	sum := m.s.summary
	return &sum, nil
}

var _ = Describe("BatchHandler", func() {
	var router *gin.Engine

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		stored := &memStores{
			batch: model.IngestionBatch{
				ID: 42, Name: "march.csv", RecordCount: 2,
				CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			},
			records: []model.ProviderRecord{
				{ProviderID: "P1", FullName: "Jane Smith", Specialty: "Cardiology", State: "NY"},
				{ProviderID: "P2", FullName: "Bob Jones", Specialty: "Oncology", State: "CA"},
			},
			issues: []model.Issue{
				model.NewIssue("P2", model.CategoryPhoneFormat, "bad phone"),
			},
			scores: []model.ProviderScore{
				{ProviderID: "P1", FinalScore: 100},
				{ProviderID: "P2", RawPenalty: 15, FinalScore: 85},
			},
			summary: model.DatasetSummary{
				OverallScore:  92.5,
				ProviderCount: 2,
				IssuesByCategory: map[model.IssueCategory]int{
					model.CategoryPhoneFormat: 1,
				},
				IssuesByState:     map[string]int{"CA": 1},
				IssuesBySpecialty: map[string]int{"Oncology": 1},
			},
		}

		router = gin.New()
		h := handler.NewBatchHandler(stored, stored, memIssues{stored}, memScores{stored})
		router.GET("/batches", h.List)
		router.GET("/batches/:id", h.Get)
		router.GET("/batches/:id/scores", h.ListScores)
		router.GET("/batches/:id/issues", h.ListIssues)
		router.GET("/batches/:id/providers/:provider_id", h.GetProvider)
	})

	It("lists stored batches", func() {
		w := get("/batches")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		batches := resp["batches"].([]any)
		Expect(batches).To(HaveLen(1))
		Expect(batches[0].(map[string]any)["name"]).To(Equal("march.csv"))
	})

	It("rejects an invalid limit", func() {
		Expect(get("/batches?limit=zero").Code).To(Equal(http.StatusBadRequest))
		Expect(get("/batches?limit=0").Code).To(Equal(http.StatusBadRequest))
	})

	It("returns a batch with its stored summary", func() {
		w := get("/batches/42")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["overall_score"]).To(BeNumerically("==", 92.5))
		Expect(resp["batch"].(map[string]any)["record_count"]).To(BeNumerically("==", 2))
	})

	It("returns 404 for an unknown batch", func() {
		Expect(get("/batches/999").Code).To(Equal(http.StatusNotFound))
		Expect(get("/batches/999/scores").Code).To(Equal(http.StatusNotFound))
		Expect(get("/batches/999/issues").Code).To(Equal(http.StatusNotFound))
	})

	It("returns the stored scores of a batch", func() {
		w := get("/batches/42/scores")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["scores"]).To(HaveLen(2))
	})

	It("returns the stored findings of a batch", func() {
		w := get("/batches/42/issues")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		issues := resp["issues"].([]any)
		Expect(issues).To(HaveLen(1))
		Expect(issues[0].(map[string]any)["category"]).To(Equal("phone_format_invalid"))
	})

	It("returns one provider's stored record, score and findings", func() {
		w := get("/batches/42/providers/P2")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["record"].(map[string]any)["full_name"]).To(Equal("Bob Jones"))
		score := resp["score"].(map[string]any)
		Expect(score["final_score"]).To(BeNumerically("==", 85))
		Expect(score["issues"]).To(HaveLen(1))
	})

	It("returns 404 for a provider not in the batch", func() {
		Expect(get("/batches/42/providers/NOPE").Code).To(Equal(http.StatusNotFound))
	})
})
