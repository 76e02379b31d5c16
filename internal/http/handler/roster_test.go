package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"rosterlens.app/engine/internal/dataset"
	"rosterlens.app/engine/internal/http/handler"
	"rosterlens.app/engine/internal/model"
)

func loadedSnapshots() *dataset.Store {
	st := dataset.NewStore()
	st.Publish(&dataset.Snapshot{
		BatchID: 7,
		Records: []model.ProviderRecord{
			{ProviderID: "P1", FullName: "Jane Smith", Specialty: "Cardiology", State: "NY"},
			{ProviderID: "P2", FullName: "Bob Jones", Specialty: "Oncology", State: "CA"},
		},
		Issues: []model.Issue{
			model.NewIssue("P2", model.CategoryPhoneFormat, "bad phone"),
		},
		Scores: []model.ProviderScore{
			{ProviderID: "P1", RawPenalty: 0, FinalScore: 100},
			{ProviderID: "P2", RawPenalty: 15, FinalScore: 85,
				Issues: []model.Issue{model.NewIssue("P2", model.CategoryPhoneFormat, "bad phone")}},
		},
		Summary: model.DatasetSummary{
			OverallScore:  92.5,
			ProviderCount: 2,
			IssuesByCategory: map[model.IssueCategory]int{
				model.CategoryPhoneFormat: 1,
			},
			IssuesByState:     map[string]int{"CA": 1},
			IssuesBySpecialty: map[string]int{"Oncology": 1},
		},
	})
	return st
}

var _ = Describe("RosterHandler", func() {
	var router *gin.Engine

	setup := func(snapshots *dataset.Store) {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		h := handler.NewRosterHandler(nil, snapshots)
		router.GET("/scores", h.ListScores)
		router.GET("/scores/:id", h.GetScore)
		router.GET("/summary", h.GetSummary)
	}

	It("lists all provider scores", func() {
		setup(loadedSnapshots())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scores", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["batch_id"]).To(BeNumerically("==", 7))
		Expect(resp["scores"]).To(HaveLen(2))
	})

	It("returns one provider's score with its issues", func() {
		setup(loadedSnapshots())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scores/P2", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["final_score"]).To(BeNumerically("==", 85))
		Expect(resp["issues"]).To(HaveLen(1))
	})

	It("returns 404 for an unknown provider", func() {
		setup(loadedSnapshots())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scores/NOPE", nil))
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns the dataset summary", func() {
		setup(loadedSnapshots())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/summary", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["overall_score"]).To(BeNumerically("==", 92.5))
		Expect(resp["provider_count"]).To(BeNumerically("==", 2))
	})

	It("returns 404 everywhere before a roster is loaded", func() {
		setup(dataset.NewStore())

		for _, path := range []string{"/scores", "/scores/P1", "/summary"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			Expect(w.Code).To(Equal(http.StatusNotFound), "path %s", path)
		}
	})
})
