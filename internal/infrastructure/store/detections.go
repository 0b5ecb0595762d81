package store

import (
	"sync"

	"github.com/mcvoramet/SentinelAI/internal/domain/models"
)

// HistoryCapacity is the number of detections kept in the ring buffer.
const HistoryCapacity = 10

// DetectionStore holds recent detections in memory. Saves evict the oldest
// entry once capacity is reached. Latest and ClearLatest operate on a
// separate slot so acknowledging the current alert leaves history intact.
type DetectionStore struct {
	mu      sync.RWMutex
	history []models.DetectionRecord
	latest  *models.DetectionRecord
}

// NewDetectionStore creates an empty store.
func NewDetectionStore() *DetectionStore {
	return &DetectionStore{
		history: make([]models.DetectionRecord, 0, HistoryCapacity),
	}
}

// Save records a detection as the latest and appends it to history,
// evicting the oldest entry when the buffer is full.
func (s *DetectionStore) Save(record models.DetectionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = &record
	s.history = append(s.history, record)
	if len(s.history) > HistoryCapacity {
		s.history = s.history[len(s.history)-HistoryCapacity:]
	}
}

// Latest returns the most recent unacknowledged detection, or nil.
func (s *DetectionStore) Latest() *models.DetectionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil
	}
	record := *s.latest
	return &record
}

// Recent returns up to limit detections, newest first. A non-positive
// limit returns the full history.
func (s *DetectionStore) Recent(limit int) []models.DetectionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.history)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]models.DetectionRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.history[i])
	}
	return out
}

// ClearLatest acknowledges the current alert. History is unaffected.
func (s *DetectionStore) ClearLatest() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = nil
}

// Len returns the number of detections in history.
func (s *DetectionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}
