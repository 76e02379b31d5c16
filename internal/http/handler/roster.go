package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rosterlens.app/engine/internal/dataset"
	"rosterlens.app/engine/internal/http/dto"
	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/roster"
)

type RosterHandler struct {
	service   *roster.Service
	snapshots *dataset.Store
}

func NewRosterHandler(service *roster.Service, snapshots *dataset.Store) *RosterHandler {
	return &RosterHandler{service: service, snapshots: snapshots}
}

// Ingest accepts a roster as a JSON batch, as multipart form data
// (field "file") holding a CSV, or as a raw CSV request body.
func (h *RosterHandler) Ingest(c *gin.Context) {
	ctx := c.Request.Context()

	if c.ContentType() == "application/json" {
		h.ingestJSON(c)
		return
	}

	name := c.Query("name")
	body := c.Request.Body
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
			return
		}
		defer f.Close()
		body = f
		if name == "" {
			name = file.Filename
		}
	}
	if name == "" {
		name = "roster"
	}

	batch, snap, err := h.service.IngestCSV(ctx, name, body)
	if err != nil {
		slog.WarnContext(ctx, "roster ingest rejected", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ingestResponse(batch, snap))
}

func (h *RosterHandler) ingestJSON(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.IngestRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := req.Name
	if name == "" {
		name = "roster"
	}

	recs := make([]model.ProviderRecord, len(req.Records))
	for i, r := range req.Records {
		recs[i] = model.ProviderRecord{
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

	batch, snap, err := h.service.IngestRecords(ctx, name, recs)
	if err != nil {
		slog.WarnContext(ctx, "roster ingest rejected", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ingestResponse(batch, snap))
}

func ingestResponse(batch *model.IngestionBatch, snap *dataset.Snapshot) dto.IngestRosterResponse {
	return dto.IngestRosterResponse{
		BatchID:         batch.ID,
		Name:            batch.Name,
		RecordCount:     batch.RecordCount,
		IssueCount:      len(snap.Issues),
		OverallScore:    snap.Summary.OverallScore,
		SnapshotVersion: snap.Version,
	}
}

// Revalidate enqueues a revalidation task for a batch.
func (h *RosterHandler) Revalidate(c *gin.Context) {
	ctx := c.Request.Context()

	batchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch id"})
		return
	}

	if err := h.service.ScheduleRevalidation(ctx, batchID, "api request"); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue revalidation", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue revalidation"})
		return
	}

	c.JSON(http.StatusAccepted, dto.RevalidateRosterResponse{
		BatchID:  batchID,
		Enqueued: true,
	})
}

// ListScores returns every provider score in the current snapshot.
func (h *RosterHandler) ListScores(c *gin.Context) {
	snap := h.snapshots.Current()
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no roster loaded"})
		return
	}

	scores := make([]dto.ProviderScoreResponse, len(snap.Scores))
	for i, sc := range snap.Scores {
		scores[i] = toScoreResponse(sc)
	}
	c.JSON(http.StatusOK, dto.ScoreListResponse{
		BatchID: snap.BatchID,
		Scores:  scores,
	})
}

// GetScore returns one provider's score.
func (h *RosterHandler) GetScore(c *gin.Context) {
	snap := h.snapshots.Current()
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no roster loaded"})
		return
	}

	sc, ok := snap.ScoreFor(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}
	c.JSON(http.StatusOK, toScoreResponse(sc))
}

// GetSummary returns the dataset-level statistics.
func (h *RosterHandler) GetSummary(c *gin.Context) {
	snap := h.snapshots.Current()
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no roster loaded"})
		return
	}

	byCategory := make(map[string]int, len(snap.Summary.IssuesByCategory))
	for cat, n := range snap.Summary.IssuesByCategory {
		byCategory[string(cat)] = n
	}
	c.JSON(http.StatusOK, dto.SummaryResponse{
		BatchID:           snap.BatchID,
		OverallScore:      snap.Summary.OverallScore,
		ProviderCount:     snap.Summary.ProviderCount,
		IssuesByCategory:  byCategory,
		IssuesByState:     snap.Summary.IssuesByState,
		IssuesBySpecialty: snap.Summary.IssuesBySpecialty,
		ComputedAt:        snap.ComputedAt,
	})
}

func toScoreResponse(sc model.ProviderScore) dto.ProviderScoreResponse {
	issues := make([]dto.IssueResponse, len(sc.Issues))
	for i, iss := range sc.Issues {
		issues[i] = dto.IssueResponse{
			Category: string(iss.Category),
			Severity: iss.Severity.String(),
			Detail:   iss.Detail,
		}
	}
	return dto.ProviderScoreResponse{
		ProviderID: sc.ProviderID,
		RawPenalty: sc.RawPenalty,
		FinalScore: sc.FinalScore,
		Issues:     issues,
	}
}
