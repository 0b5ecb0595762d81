package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mcvoramet/SentinelAI/internal/domain/services"
	"github.com/mcvoramet/SentinelAI/internal/domain/services/ai"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// ScanHandler handles content scanning endpoints
type ScanHandler struct {
	catalog  *ai.PatternCatalog
	scorer   *ai.KeywordScorer
	pipeline *services.DetectionPipeline
	logger   *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(catalog *ai.PatternCatalog, scorer *ai.KeywordScorer, pipeline *services.DetectionPipeline, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		catalog:  catalog,
		scorer:   scorer,
		pipeline: pipeline,
		logger:   log.WithComponent("scan-handler"),
	}
}

// ScoreRequest is the request body for keyword scoring
type ScoreRequest struct {
	Text string `json:"text"`
}

// Score handles POST /api/v1/scan/score - scores text against the pattern catalog
func (h *ScanHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.scorer.Score(req.Text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// SnippetsRequest is the request body for snippet extraction
type SnippetsRequest struct {
	Text         string   `json:"text"`
	Patterns     []string `json:"patterns"`
	ContextChars *int     `json:"context_chars,omitempty"`
}

// SnippetsResponse carries the extracted evidence text
type SnippetsResponse struct {
	EvidenceText string `json:"evidence_text"`
}

// Snippets handles POST /api/v1/scan/snippets - extracts evidence windows
func (h *ScanHandler) Snippets(w http.ResponseWriter, r *http.Request) {
	var req SnippetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contextChars := ai.DefaultContextChars
	if req.ContextChars != nil {
		contextChars = *req.ContextChars
	}

	evidence := ai.ExtractRelevantText(req.Text, req.Patterns, contextChars)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SnippetsResponse{EvidenceText: evidence})
}

// Analyze handles POST /api/v1/scan/analyze - runs the full detection path
// synchronously and returns the saved record
func (h *ScanHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var event services.ContentEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if event.Text == "" {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}
	if event.TrustScore < 0 || event.TrustScore > 100 {
		http.Error(w, "Trust score must be between 0 and 100", http.StatusBadRequest)
		return
	}

	record, err := h.pipeline.Analyze(r.Context(), event)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to analyze content")
		http.Error(w, "Analysis failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Str("source_id", event.SourceID).
		Int("score", record.Score).
		Str("risk_level", string(record.RiskLevel)).
		Msg("content analyzed")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// PatternsResponse carries the catalog for client-side local detection
type PatternsResponse struct {
	Patterns []ai.PatternEntry `json:"patterns"`
	Count    int               `json:"count"`
}

// GetPatterns handles GET /api/v1/patterns - returns the pattern catalog
func (h *ScanHandler) GetPatterns(w http.ResponseWriter, r *http.Request) {
	entries := h.catalog.Entries()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(PatternsResponse{
		Patterns: entries,
		Count:    len(entries),
	})
}
