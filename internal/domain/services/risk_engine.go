package services

import (
	"fmt"

	"github.com/mcvoramet/SentinelAI/internal/domain/models"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// Aggregate point contributions per signal. The additive model keeps the
// final score explainable: every point on the 0-100 scale traces back to
// exactly one input.
const (
	pointsChatHigh     = 50
	pointsChatMedium   = 30
	pointsChatLow      = 10
	pointsMismatch     = 40
	pointsLowTrust     = 20
	pointsAIConfirmed  = 30
	lowTrustThreshold  = 20
	trustYellowCutoff  = 50
	aiConfidenceCutoff = 70
)

// AggregateInput carries one signal per channel into Aggregate.
type AggregateInput struct {
	// ChatRiskTier is the keyword-derived tier for the conversation. Only
	// LOW, MEDIUM and HIGH are accepted; callers clamp CRITICAL to HIGH
	// before aggregating.
	ChatRiskTier models.RiskLevel

	// LocationMismatch is true when the counterparty's observed location
	// contradicts their claims.
	LocationMismatch bool

	// TrustScore is the relationship trust score, 0-100.
	TrustScore int

	// Classification is the external classifier verdict, nil when the
	// classifier was unavailable.
	Classification *models.ScamClassification

	// KeywordPatterns is the keyword-derived pattern list used when the
	// classifier does not override it.
	KeywordPatterns []string
}

// RiskEngine folds independent signal channels into one assessment.
type RiskEngine struct {
	logger *logger.Logger
}

// NewRiskEngine creates a risk engine.
func NewRiskEngine(log *logger.Logger) *RiskEngine {
	return &RiskEngine{
		logger: log.WithComponent("risk-engine"),
	}
}

// Aggregate combines chat, location, trust and classifier signals into a
// single score, tier and per-channel status breakdown.
//
// Points: chat HIGH +50 / MEDIUM +30 / LOW +10; location mismatch +40;
// trust below 20 +20; classifier scam verdict with confidence above 70 +30.
// The sum is clamped to 0-100 and mapped through the aggregate tier table,
// which is deliberately distinct from the single-signal keyword table.
func (e *RiskEngine) Aggregate(input AggregateInput) (*models.RiskAssessment, error) {
	if input.TrustScore < 0 || input.TrustScore > 100 {
		return nil, fmt.Errorf("trust score %d outside 0-100", input.TrustScore)
	}

	score := 0
	switch input.ChatRiskTier {
	case models.RiskLevelHigh:
		score += pointsChatHigh
	case models.RiskLevelMedium:
		score += pointsChatMedium
	case models.RiskLevelLow:
		score += pointsChatLow
	default:
		return nil, fmt.Errorf("chat risk tier must be low, medium or high, got %q", input.ChatRiskTier)
	}

	if input.LocationMismatch {
		score += pointsMismatch
	}
	if input.TrustScore < lowTrustThreshold {
		score += pointsLowTrust
	}

	var tactics []string
	if c := input.Classification; c != nil && c.IsScam && c.Confidence > aiConfidenceCutoff {
		score += pointsAIConfirmed
		tactics = c.Tactics
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	// Classifier tactics take precedence; the keyword list is shown only
	// once the combined score is past the midpoint.
	matched := tactics
	if len(matched) == 0 {
		switch {
		case score <= 50:
			matched = []string{}
		case len(input.KeywordPatterns) > 0:
			matched = input.KeywordPatterns
		default:
			matched = []string{"Multiple risk signals"}
		}
	}

	assessment := &models.RiskAssessment{
		Score:           score,
		RiskLevel:       aggregateTier(score),
		MatchedPatterns: matched,
		Signals: map[string]models.SignalStatus{
			models.SignalChannelChat:     chatSignal(input.ChatRiskTier, tactics),
			models.SignalChannelLocation: locationSignal(input.LocationMismatch),
			models.SignalChannelTrust:    trustSignal(input.TrustScore),
		},
	}

	e.logger.Debug().
		Int("score", score).
		Str("risk_level", string(assessment.RiskLevel)).
		Bool("location_mismatch", input.LocationMismatch).
		Int("trust_score", input.TrustScore).
		Bool("ai_verdict", input.Classification != nil).
		Msg("aggregated risk signals")

	return assessment, nil
}

// aggregateTier maps a combined 0-100 score to a risk tier. This table is
// distinct from the keyword scoring table and must stay that way.
func aggregateTier(score int) models.RiskLevel {
	switch {
	case score >= 80:
		return models.RiskLevelCritical
	case score >= 60:
		return models.RiskLevelHigh
	case score >= 40:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

func chatSignal(tier models.RiskLevel, tactics []string) models.SignalStatus {
	if tier == models.RiskLevelHigh || len(tactics) > 0 {
		return models.SignalRed
	}
	return models.SignalGreen
}

func locationSignal(mismatch bool) models.SignalStatus {
	if mismatch {
		return models.SignalRed
	}
	return models.SignalGreen
}

// trustSignal is YELLOW below 50 and GREEN otherwise. The trust channel
// alone never reaches RED: low trust raises the score but is not by itself
// grounds for maximum alarm.
func trustSignal(trustScore int) models.SignalStatus {
	if trustScore < trustYellowCutoff {
		return models.SignalYellow
	}
	return models.SignalGreen
}
