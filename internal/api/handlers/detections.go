package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mcvoramet/SentinelAI/internal/domain/models"
	"github.com/mcvoramet/SentinelAI/internal/infrastructure/store"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// DetectionsHandler handles detection history endpoints
type DetectionsHandler struct {
	store  *store.DetectionStore
	logger *logger.Logger
}

// NewDetectionsHandler creates a new detections handler
func NewDetectionsHandler(s *store.DetectionStore, log *logger.Logger) *DetectionsHandler {
	return &DetectionsHandler{
		store:  s,
		logger: log.WithComponent("detections-handler"),
	}
}

// RecentResponse carries recent detections, newest first
type RecentResponse struct {
	Detections []models.DetectionRecord `json:"detections"`
	Count      int                      `json:"count"`
}

// Recent handles GET /api/v1/detections - lists recent detections
func (h *DetectionsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	detections := h.store.Recent(limit)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(RecentResponse{
		Detections: detections,
		Count:      len(detections),
	})
}

// Latest handles GET /api/v1/detections/latest - returns the current
// unacknowledged detection
func (h *DetectionsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	record := h.store.Latest()
	if record == nil {
		http.Error(w, "No active detection", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}

// ClearLatest handles DELETE /api/v1/detections/latest - acknowledges the
// current detection
func (h *DetectionsHandler) ClearLatest(w http.ResponseWriter, r *http.Request) {
	h.store.ClearLatest()
	h.logger.Debug().Msg("latest detection cleared")
	w.WriteHeader(http.StatusNoContent)
}
