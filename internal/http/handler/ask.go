package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"rosterlens.app/engine/internal/http/dto"
	"rosterlens.app/engine/internal/pipeline"
)

type AskHandler struct {
	pipeline *pipeline.Pipeline
}

func NewAskHandler(p *pipeline.Pipeline) *AskHandler {
	return &AskHandler{pipeline: p}
}

// Ask answers a natural-language question about the current roster. It
// never returns a server error for an answerable request: classification
// and composition both degrade to deterministic fallbacks.
func (h *AskHandler) Ask(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid ask request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, turn := h.pipeline.Ask(ctx, req.Query)

	c.JSON(http.StatusOK, dto.AskResponse{
		Answer:     answer.Text,
		Intent:     string(answer.Intent),
		Confidence: answer.Confidence,
		Method:     string(answer.Method),
		Generated:  answer.Generated,
		TurnID:     turn.ID,
		Followups:  answer.Followups,
	})
}

// Session returns the conversation history for this process.
func (h *AskHandler) Session(c *gin.Context) {
	turns := h.pipeline.Session().Turns()
	out := make([]dto.TurnResponse, len(turns))
	for i, t := range turns {
		out[i] = dto.TurnResponse{
			ID:        t.ID,
			Query:     t.Query,
			Intent:    string(t.Intent),
			Method:    string(t.Method),
			Response:  t.Response,
			Timestamp: t.Timestamp,
		}
	}
	c.JSON(http.StatusOK, dto.SessionResponse{Turns: out})
}

// ResetSession clears the conversation history. Roster data is untouched.
func (h *AskHandler) ResetSession(c *gin.Context) {
	h.pipeline.Session().Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
