package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the discrete risk tier assigned to a detection.
// The order is total: low < medium < high < critical.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Rank returns the position of the level in the total order, starting at 0.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLevelLow:
		return 0
	case RiskLevelMedium:
		return 1
	case RiskLevelHigh:
		return 2
	case RiskLevelCritical:
		return 3
	default:
		return -1
	}
}

// DisplayName returns the fixed human-facing name for the level.
func (r RiskLevel) DisplayName() string {
	switch r {
	case RiskLevelLow:
		return "Low Risk"
	case RiskLevelMedium:
		return "Medium Risk"
	case RiskLevelHigh:
		return "High Risk"
	case RiskLevelCritical:
		return "Critical Risk"
	default:
		return string(r)
	}
}

// Description returns the fixed human-facing description for the level.
func (r RiskLevel) Description() string {
	switch r {
	case RiskLevelLow:
		return "Some suspicious keywords detected. Stay cautious."
	case RiskLevelMedium:
		return "Multiple scam indicators found. Be careful before sharing personal info or money."
	case RiskLevelHigh:
		return "Strong scam patterns detected. This conversation shows classic fraud tactics."
	case RiskLevelCritical:
		return "Extremely dangerous! This matches known scam patterns. Do NOT send money or personal information."
	default:
		return ""
	}
}

// ParseRiskLevel converts a string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return RiskLevel(s), nil
	}
	return "", fmt.Errorf("unknown risk level %q", s)
}

// SignalStatus is a three-state indicator for one signal channel.
type SignalStatus string

const (
	SignalGreen  SignalStatus = "green"
	SignalYellow SignalStatus = "yellow"
	SignalRed    SignalStatus = "red"
)

// Signal channel names. Each channel is one independent axis of evidence.
const (
	SignalChannelChat     = "chat"
	SignalChannelLocation = "location"
	SignalChannelTrust    = "trust"
)

// ScoringResult is the outcome of one keyword-scoring pass. Produced fresh
// per call and never mutated afterwards. MatchedPatterns preserves catalog
// scan order with duplicates removed by phrase identity.
type ScoringResult struct {
	Score           int       `json:"score"`
	MatchedPatterns []string  `json:"matched_patterns"`
	RiskLevel       RiskLevel `json:"risk_level"`
}

// ScamClassification is the structured verdict returned by the external
// classifier. An unavailable or failed call is modeled as the absence of a
// classification, never as a zero-confidence one.
type ScamClassification struct {
	IsScam     bool     `json:"is_scam"`
	Confidence int      `json:"confidence"` // 0-100
	Tactics    []string `json:"tactics"`
}

// RiskExplanation carries the human-facing reasoning text and the Socratic
// follow-up questions shown alongside a warning.
type RiskExplanation struct {
	Explanation string   `json:"explanation"`
	Questions   []string `json:"questions"`
}

// RiskAssessment is the aggregate verdict folded from all signal channels.
type RiskAssessment struct {
	Score           int                     `json:"score"` // 0-100
	RiskLevel       RiskLevel               `json:"risk_level"`
	MatchedPatterns []string                `json:"matched_patterns"`
	Signals         map[string]SignalStatus `json:"signals"`
}

// DetectionRecord holds everything about one triggered detection. Created
// exactly once per trigger and immutable thereafter.
type DetectionRecord struct {
	ID                uuid.UUID               `json:"id"`
	Timestamp         time.Time               `json:"timestamp"`
	SourceID          string                  `json:"source_id"`
	CounterpartyName  string                  `json:"counterparty_name,omitempty"`
	Score             int                     `json:"score"`
	RiskLevel         RiskLevel               `json:"risk_level"`
	MatchedPatterns   []string                `json:"matched_patterns"`
	EvidenceText      string                  `json:"evidence_text"`
	Reasoning         string                  `json:"reasoning,omitempty"`
	Signals           map[string]SignalStatus `json:"signals"`
	FollowUpQuestions []string                `json:"follow_up_questions"`

	// Screenshot is an opaque optional attachment supplied by the
	// screenshot provider. The engine never inspects it.
	Screenshot []byte `json:"screenshot,omitempty"`
}
