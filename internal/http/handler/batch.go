package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rosterlens.app/engine/internal/http/dto"
	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/store"
)

const (
	defaultBatchLimit = 20
	maxBatchLimit     = 100
)

// BatchHandler serves ingestion history straight from the database, so
// past batches stay inspectable after the snapshot has moved on.
type BatchHandler struct {
	batches   store.BatchStore
	providers store.ProviderStore
	issues    store.IssueStore
	scores    store.ScoreStore
}

func NewBatchHandler(batches store.BatchStore, providers store.ProviderStore, issues store.IssueStore, scores store.ScoreStore) *BatchHandler {
	return &BatchHandler{
		batches:   batches,
		providers: providers,
		issues:    issues,
		scores:    scores,
	}
}

// List returns the most recent ingestion batches, newest first.
func (h *BatchHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	limit := int32(defaultBatchLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if n > maxBatchLimit {
			n = maxBatchLimit
		}
		limit = int32(n)
	}

	batches, err := h.batches.List(ctx, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list batches", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list batches"})
		return
	}

	out := make([]dto.BatchResponse, len(batches))
	for i, b := range batches {
		out[i] = toBatchResponse(&b)
	}
	c.JSON(http.StatusOK, dto.BatchListResponse{Batches: out})
}

// Get returns one batch with its stored summary.
func (h *BatchHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	batchID, ok := batchParam(c)
	if !ok {
		return
	}

	batch, err := h.batches.GetByID(ctx, batchID)
	if err != nil {
		respondStoreError(c, err, "batch")
		return
	}
	summary, err := h.scores.GetSummary(ctx, batchID)
	if err != nil {
		respondStoreError(c, err, "summary")
		return
	}

	byCategory := make(map[string]int, len(summary.IssuesByCategory))
	for cat, n := range summary.IssuesByCategory {
		byCategory[string(cat)] = n
	}
	c.JSON(http.StatusOK, dto.BatchDetailResponse{
		Batch:             toBatchResponse(batch),
		OverallScore:      summary.OverallScore,
		ProviderCount:     summary.ProviderCount,
		IssuesByCategory:  byCategory,
		IssuesByState:     summary.IssuesByState,
		IssuesBySpecialty: summary.IssuesBySpecialty,
	})
}

// ListScores returns the stored scores of a batch.
func (h *BatchHandler) ListScores(c *gin.Context) {
	ctx := c.Request.Context()
	batchID, ok := batchParam(c)
	if !ok {
		return
	}

	scores, err := h.scores.ListByBatch(ctx, batchID)
	if err != nil {
		respondStoreError(c, err, "scores")
		return
	}

	out := make([]dto.ProviderScoreResponse, len(scores))
	for i, sc := range scores {
		out[i] = toScoreResponse(sc)
	}
	c.JSON(http.StatusOK, dto.ScoreListResponse{BatchID: batchID, Scores: out})
}

// ListIssues returns the stored validation findings of a batch.
func (h *BatchHandler) ListIssues(c *gin.Context) {
	ctx := c.Request.Context()
	batchID, ok := batchParam(c)
	if !ok {
		return
	}

	issues, err := h.issues.ListByBatch(ctx, batchID)
	if err != nil {
		respondStoreError(c, err, "issues")
		return
	}

	out := make([]dto.BatchIssueResponse, len(issues))
	for i, iss := range issues {
		out[i] = dto.BatchIssueResponse{
			ProviderID: iss.ProviderID,
			Category:   string(iss.Category),
			Severity:   iss.Severity.String(),
			Detail:     iss.Detail,
		}
	}
	c.JSON(http.StatusOK, dto.BatchIssuesResponse{BatchID: batchID, Issues: out})
}

// GetProvider returns one provider's record, score and findings as stored
// for a batch.
func (h *BatchHandler) GetProvider(c *gin.Context) {
	ctx := c.Request.Context()
	batchID, ok := batchParam(c)
	if !ok {
		return
	}
	providerID := c.Param("provider_id")

	rec, err := h.providers.GetByBatchAndProviderID(ctx, batchID, providerID)
	if err != nil {
		respondStoreError(c, err, "provider")
		return
	}
	score, err := h.scores.GetByProvider(ctx, batchID, providerID)
	if err != nil {
		respondStoreError(c, err, "score")
		return
	}
	issues, err := h.issues.ListByProvider(ctx, batchID, providerID)
	if err != nil {
		respondStoreError(c, err, "issues")
		return
	}
	score.Issues = issues

	c.JSON(http.StatusOK, dto.ProviderDetailResponse{
		Record: toRecordResponse(rec),
		Score:  toScoreResponse(*score),
	})
}

func batchParam(c *gin.Context) (int64, bool) {
	batchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch id"})
		return 0, false
	}
	return batchID, true
}

func respondStoreError(c *gin.Context, err error, entity string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
		return
	}
	slog.ErrorContext(c.Request.Context(), "store read failed",
		"entity", entity,
		"error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load " + entity})
}

func toBatchResponse(b *model.IngestionBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:          b.ID,
		Name:        b.Name,
		RecordCount: b.RecordCount,
		CreatedAt:   b.CreatedAt,
	}
}

func toRecordResponse(r *model.ProviderRecord) dto.ProviderRecordResponse {
	return dto.ProviderRecordResponse{
		ProviderID:         r.ProviderID,
		FullName:           r.FullName,
		Specialty:          r.Specialty,
		State:              r.State,
		Phone:              r.Phone,
		NPI:                r.NPI,
		LicenseNumber:      r.LicenseNumber,
		LicenseState:       r.LicenseState,
		LicenseExpiry:      r.LicenseExpiry,
		ExtraLicenseStates: r.ExtraLicenseStates,
	}
}
