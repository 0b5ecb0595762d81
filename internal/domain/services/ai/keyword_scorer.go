package ai

import (
	"strings"
	"unicode"

	"github.com/mcvoramet/SentinelAI/internal/domain/models"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// TriggerThreshold is the accumulated score at which callers should surface
// a warning to the user. Distinct from the classification thresholds below,
// which map a single score to a risk tier.
const TriggerThreshold = 3

// KeywordScorer scans text against the pattern catalog and produces a
// weighted score. Pure and synchronous, safe to call from any goroutine.
type KeywordScorer struct {
	catalog *PatternCatalog
	logger  *logger.Logger
}

// NewKeywordScorer creates a scorer over the given catalog.
func NewKeywordScorer(catalog *PatternCatalog, log *logger.Logger) *KeywordScorer {
	return &KeywordScorer{
		catalog: catalog,
		logger:  log.WithComponent("keyword-scorer"),
	}
}

// Score scans text for catalog phrases. Matching is case-folded substring
// containment; a phrase contributes its weight exactly once no matter how
// often it occurs. Matched phrases keep catalog scan order.
func (s *KeywordScorer) Score(text string) models.ScoringResult {
	folded := foldCase(text)

	matched := make([]string, 0)
	seen := make(map[string]struct{})
	score := 0

	for _, entry := range s.catalog.entries {
		if _, ok := seen[entry.Phrase]; ok {
			continue
		}
		if strings.Contains(folded, foldCase(entry.Phrase)) {
			seen[entry.Phrase] = struct{}{}
			matched = append(matched, entry.Phrase)
			score += entry.Weight
		}
	}

	result := models.ScoringResult{
		Score:           score,
		MatchedPatterns: matched,
		RiskLevel:       ClassifyScore(score),
	}

	if score > 0 {
		s.logger.Debug().
			Int("score", score).
			Int("patterns", len(matched)).
			Str("risk_level", string(result.RiskLevel)).
			Msg("keyword matches found")
	}

	return result
}

// ClassifyScore maps a keyword score to a risk tier. A zero score is LOW:
// absence of signal collapses into the lowest tier rather than a separate
// "none" state.
func ClassifyScore(score int) models.RiskLevel {
	switch {
	case score >= 10:
		return models.RiskLevelCritical
	case score >= 6:
		return models.RiskLevelHigh
	case score >= 3:
		return models.RiskLevelMedium
	default:
		return models.RiskLevelLow
	}
}

// foldCase lowercases rune-by-rune. The per-rune mapping keeps rune counts
// and positions aligned with the input, which the snippet extractor relies
// on, and is stable for caseless scripts such as Thai.
func foldCase(s string) string {
	return strings.Map(unicode.ToLower, s)
}
