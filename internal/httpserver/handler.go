package httpserver

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"triagebot/internal/domain"
)

// TriageService is the surface the handlers need from the triage pipeline.
type TriageService interface {
	Triage(ctx context.Context, clientID, text string) (domain.TicketRecord, error)
	Recent(ctx context.Context, limit int) ([]domain.TicketRecord, error)
}

type Handler struct {
	svc         TriageService
	recentLimit int
	indexPage   []byte
}

func NewHandler(svc TriageService, apiBaseURL string, recentLimit int) (*Handler, error) {
	page, err := renderIndexPage(apiBaseURL)
	if err != nil {
		return nil, err
	}
	return &Handler{svc: svc, recentLimit: recentLimit, indexPage: page}, nil
}

type triageRequest struct {
	ClientID string `json:"client_id"`
	Ticket   string `json:"ticket"`
}

type triageResponse struct {
	ID             string                `json:"id"`
	ClientID       string                `json:"client_id"`
	Summary        string                `json:"summary"`
	FullSummary    string                `json:"full_summary,omitempty"`
	FullText       string                `json:"full_text"`
	Category       string                `json:"category"`
	Severity       domain.Severity       `json:"severity"`
	KBMatch        string                `json:"kb_match"`
	NextStep       string                `json:"next_step"`
	AnalysisSource domain.AnalysisSource `json:"analysis_source"`
	LLMRaw         json.RawMessage       `json:"llm_raw,omitempty"`
}

func toTriageResponse(rec domain.TicketRecord) triageResponse {
	return triageResponse{
		ID:             rec.ID,
		ClientID:       rec.ClientID,
		Summary:        rec.Summary,
		FullSummary:    rec.FullSummary,
		FullText:       rec.Ticket,
		Category:       rec.Category,
		Severity:       rec.Severity,
		KBMatch:        rec.KBMatch,
		NextStep:       rec.NextStep,
		AnalysisSource: rec.AnalysisSource,
		LLMRaw:         rec.LLMRaw,
	}
}

func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.indexPage)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Triage(c *gin.Context) {
	var req triageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Ticket) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticket text is required"})
		return
	}

	rec, err := h.svc.Triage(c.Request.Context(), req.ClientID, req.Ticket)
	if err != nil {
		log.Printf("triage failed for client=%s: %v", req.ClientID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist ticket"})
		return
	}
	c.JSON(http.StatusOK, toTriageResponse(rec))
}

func (h *Handler) Recent(c *gin.Context) {
	limit := h.recentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	records, err := h.svc.Recent(c.Request.Context(), limit)
	if err != nil {
		log.Printf("recent tickets query failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent tickets"})
		return
	}

	responses := make([]triageResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toTriageResponse(rec))
	}
	c.JSON(http.StatusOK, gin.H{"tickets": responses})
}
