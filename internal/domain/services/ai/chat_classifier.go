package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mcvoramet/SentinelAI/internal/config"
	"github.com/mcvoramet/SentinelAI/internal/domain/models"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// ErrUnavailable signals that the external classifier produced no usable
// verdict. Every internal failure mode (transport error, bad status,
// malformed payload, missing fields, timeout) collapses into it; callers
// treat it as "no external signal", never as an error to surface.
var ErrUnavailable = errors.New("external classifier unavailable")

// ProviderOffline selects the fixed demo classification instead of a
// network call.
const ProviderOffline = "offline"

// FallbackExplanation is the pre-authored reasoning text shown when the
// explain call is unavailable.
const FallbackExplanation = "We detected high-pressure tactics often used in scams. The recipient's location does not match their claims."

// FallbackQuestions returns the pre-authored Socratic follow-up set used
// when the explain call is unavailable. Never empty.
func FallbackQuestions() []string {
	return []string{
		"Have you met this person in real life?",
		"Why is the payment urgent?",
	}
}

// FallbackRiskExplanation bundles the fixed fallback texts.
func FallbackRiskExplanation() *models.RiskExplanation {
	return &models.RiskExplanation{
		Explanation: FallbackExplanation,
		Questions:   FallbackQuestions(),
	}
}

// offlineClassification is the fixed verdict emitted by the offline
// provider, matching the demo behavior when no API key is configured.
func offlineClassification() *models.ScamClassification {
	return &models.ScamClassification{
		IsScam:     true,
		Confidence: 85,
		Tactics:    []string{"Urgency (Offline Fallback)", "Secrecy"},
	}
}

// Completer abstracts the underlying LLM call so tests can substitute a
// canned response.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ClassificationCache caches classifier verdicts keyed by content hash.
// Implemented by cache.RedisCache; a nil cache disables caching.
type ClassificationCache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// DetectionSummary is the condensed detection context handed to Explain.
type DetectionSummary struct {
	RiskLevel        models.RiskLevel
	AppLabel         string
	CounterpartyName string
	MatchedPatterns  []string
	EvidenceText     string
}

// ChatClassifier adapts an external LLM into the classifier contract:
// single attempt per call, strict schema validation, ErrUnavailable on any
// failure.
type ChatClassifier struct {
	llm      Completer
	provider string
	cache    ClassificationCache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewChatClassifier creates a classifier from the AI configuration. The
// offline provider needs no credentials and performs no I/O.
func NewChatClassifier(cfg config.AIConfig, cache ClassificationCache, log *logger.Logger) *ChatClassifier {
	c := &ChatClassifier{
		provider: cfg.Provider,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		logger:   log.WithComponent("chat-classifier"),
	}
	if cfg.Provider != ProviderOffline {
		c.llm = NewLLMClient(LLMConfig{
			Provider:     cfg.Provider,
			ClaudeAPIKey: cfg.ClaudeAPIKey,
			OpenAIAPIKey: cfg.OpenAIAPIKey,
			Model:        cfg.Model,
			Timeout:      cfg.Timeout,
		}, log)
	}
	return c
}

const classifySystemPrompt = `You are an expert scam detection assistant. Analyze chat text for scam tactics: urgency pressure, secrecy demands, guaranteed returns, requests for money or crypto, romance manipulation, impersonation.

Respond in valid JSON only:
{
  "is_scam": boolean,
  "confidence": integer 0-100,
  "tactics": ["list of tactics found"]
}`

// Classify sends text to the external classifier and returns its verdict.
// A single attempt is made; any failure returns ErrUnavailable.
func (c *ChatClassifier) Classify(ctx context.Context, text string) (*models.ScamClassification, error) {
	if c.provider == ProviderOffline {
		return offlineClassification(), nil
	}

	cacheKey := "classify:" + contentHash(text)
	if c.cache != nil {
		var cached models.ScamClassification
		if err := c.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	prompt := fmt.Sprintf("Analyze the following chat text for scam tactics.\n\nText:\n```\n%s\n```\n\nRespond with the JSON object only.", text)

	raw, err := c.llm.Complete(ctx, classifySystemPrompt, prompt)
	if err != nil {
		c.logger.Warn().Err(err).Msg("classifier call failed")
		return nil, ErrUnavailable
	}

	classification, err := parseClassification(raw)
	if err != nil {
		c.logger.Warn().Err(err).Msg("classifier returned malformed payload")
		return nil, ErrUnavailable
	}

	if c.cache != nil {
		// Cache errors never affect the verdict
		if err := c.cache.SetJSON(ctx, cacheKey, classification, c.cacheTTL); err != nil {
			c.logger.Debug().Err(err).Msg("failed to cache classification")
		}
	}

	return classification, nil
}

const explainSystemPrompt = `You are a protective AI guardian called SentinelAI. A user is about to make a risky payment. Write a calm, rational explanation of WHY the conversation is risky (max 2 sentences) and 2 Socratic questions to help the user reflect.

Respond in valid JSON only:
{
  "explanation": "string",
  "questions": ["string", "string"]
}`

// Explain generates the human-facing reasoning and follow-up questions for
// a detection. Same single-attempt, fail-soft contract as Classify; on
// ErrUnavailable callers substitute FallbackRiskExplanation.
func (c *ChatClassifier) Explain(ctx context.Context, summary DetectionSummary) (*models.RiskExplanation, error) {
	if c.provider == ProviderOffline {
		return FallbackRiskExplanation(), nil
	}

	var sb strings.Builder
	sb.WriteString("Context:\n")
	fmt.Fprintf(&sb, "- Risk Level: %s\n", summary.RiskLevel.DisplayName())
	if summary.AppLabel != "" {
		fmt.Fprintf(&sb, "- App: %s\n", summary.AppLabel)
	}
	if summary.CounterpartyName != "" {
		fmt.Fprintf(&sb, "- Chat Partner: %s\n", summary.CounterpartyName)
	}
	if len(summary.MatchedPatterns) > 0 {
		fmt.Fprintf(&sb, "- Tactics Detected: %s\n", strings.Join(summary.MatchedPatterns, ", "))
	}
	fmt.Fprintf(&sb, "- Suspicious Text: %q\n", summary.EvidenceText)

	raw, err := c.llm.Complete(ctx, explainSystemPrompt, sb.String())
	if err != nil {
		c.logger.Warn().Err(err).Msg("explain call failed")
		return nil, ErrUnavailable
	}

	explanation, err := parseExplanation(raw)
	if err != nil {
		c.logger.Warn().Err(err).Msg("explain returned malformed payload")
		return nil, ErrUnavailable
	}
	return explanation, nil
}

// parseClassification validates the classifier payload strictly: required
// fields must be present and confidence must be within 0-100.
func parseClassification(raw string) (*models.ScamClassification, error) {
	var payload struct {
		IsScam     *bool    `json:"is_scam"`
		Confidence *int     `json:"confidence"`
		Tactics    []string `json:"tactics"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return nil, fmt.Errorf("unparsable classification: %w", err)
	}
	if payload.IsScam == nil || payload.Confidence == nil {
		return nil, fmt.Errorf("classification missing required fields")
	}
	if *payload.Confidence < 0 || *payload.Confidence > 100 {
		return nil, fmt.Errorf("classification confidence %d out of range", *payload.Confidence)
	}

	tactics := payload.Tactics
	if tactics == nil {
		tactics = []string{}
	}
	return &models.ScamClassification{
		IsScam:     *payload.IsScam,
		Confidence: *payload.Confidence,
		Tactics:    tactics,
	}, nil
}

// parseExplanation validates the explain payload strictly.
func parseExplanation(raw string) (*models.RiskExplanation, error) {
	var payload struct {
		Explanation *string  `json:"explanation"`
		Questions   []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &payload); err != nil {
		return nil, fmt.Errorf("unparsable explanation: %w", err)
	}
	if payload.Explanation == nil || *payload.Explanation == "" || len(payload.Questions) == 0 {
		return nil, fmt.Errorf("explanation missing required fields")
	}
	return &models.RiskExplanation{
		Explanation: *payload.Explanation,
		Questions:   payload.Questions,
	}, nil
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
