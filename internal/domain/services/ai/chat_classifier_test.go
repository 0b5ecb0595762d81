package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcvoramet/SentinelAI/internal/config"
	"github.com/mcvoramet/SentinelAI/internal/domain/models"
	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

// fakeCompleter returns a canned response or error
type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return f.response, f.err
}

func newTestClassifier(llm Completer) *ChatClassifier {
	return &ChatClassifier{
		llm:      llm,
		provider: "claude",
		logger:   logger.NewNop(),
	}
}

func TestClassifyValidPayload(t *testing.T) {
	c := newTestClassifier(&fakeCompleter{
		response: `{"is_scam": true, "confidence": 92, "tactics": ["Urgency", "Guaranteed returns"]}`,
	})

	got, err := c.Classify(context.Background(), "guaranteed profit, act now")

	require.NoError(t, err)
	assert.True(t, got.IsScam)
	assert.Equal(t, 92, got.Confidence)
	assert.Equal(t, []string{"Urgency", "Guaranteed returns"}, got.Tactics)
}

func TestClassifyFencedPayload(t *testing.T) {
	c := newTestClassifier(&fakeCompleter{
		response: "```json\n{\"is_scam\": false, \"confidence\": 10, \"tactics\": []}\n```",
	})

	got, err := c.Classify(context.Background(), "see you at dinner")

	require.NoError(t, err)
	assert.False(t, got.IsScam)
	assert.Equal(t, 10, got.Confidence)
	assert.Empty(t, got.Tactics)
}

func TestClassifyMissingTacticsDefaultsEmpty(t *testing.T) {
	c := newTestClassifier(&fakeCompleter{
		response: `{"is_scam": false, "confidence": 5}`,
	})

	got, err := c.Classify(context.Background(), "hello")

	require.NoError(t, err)
	assert.NotNil(t, got.Tactics)
	assert.Empty(t, got.Tactics)
}

func TestClassifyUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "transport error", err: errors.New("connection refused")},
		{name: "not json", response: "I think this is probably a scam."},
		{name: "missing is_scam", response: `{"confidence": 80, "tactics": []}`},
		{name: "missing confidence", response: `{"is_scam": true, "tactics": []}`},
		{name: "confidence too high", response: `{"is_scam": true, "confidence": 150, "tactics": []}`},
		{name: "confidence negative", response: `{"is_scam": true, "confidence": -5, "tactics": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(&fakeCompleter{response: tt.response, err: tt.err})

			got, err := c.Classify(context.Background(), "some text")

			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestClassifyOfflineProvider(t *testing.T) {
	c := NewChatClassifier(config.AIConfig{Provider: ProviderOffline}, nil, logger.NewNop())

	got, err := c.Classify(context.Background(), "anything at all")

	require.NoError(t, err)
	assert.True(t, got.IsScam)
	assert.Equal(t, 85, got.Confidence)
	assert.Equal(t, []string{"Urgency (Offline Fallback)", "Secrecy"}, got.Tactics)
}

func TestExplainValidPayload(t *testing.T) {
	c := newTestClassifier(&fakeCompleter{
		response: `{"explanation": "This conversation pressures you to pay quickly.", "questions": ["Have you met them?", "Why the rush?"]}`,
	})

	got, err := c.Explain(context.Background(), DetectionSummary{
		RiskLevel:    models.RiskLevelHigh,
		EvidenceText: "urgent, send me money",
	})

	require.NoError(t, err)
	assert.Equal(t, "This conversation pressures you to pay quickly.", got.Explanation)
	assert.Len(t, got.Questions, 2)
}

func TestExplainUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "transport error", err: errors.New("timeout")},
		{name: "missing explanation", response: `{"questions": ["one", "two"]}`},
		{name: "empty explanation", response: `{"explanation": "", "questions": ["one"]}`},
		{name: "no questions", response: `{"explanation": "risky", "questions": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(&fakeCompleter{response: tt.response, err: tt.err})

			got, err := c.Explain(context.Background(), DetectionSummary{RiskLevel: models.RiskLevelHigh})

			assert.Nil(t, got)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestExplainOfflineProvider(t *testing.T) {
	c := NewChatClassifier(config.AIConfig{Provider: ProviderOffline}, nil, logger.NewNop())

	got, err := c.Explain(context.Background(), DetectionSummary{RiskLevel: models.RiskLevelCritical})

	require.NoError(t, err)
	assert.Equal(t, FallbackExplanation, got.Explanation)
	assert.Equal(t, FallbackQuestions(), got.Questions)
}

func TestFallbackNeverEmpty(t *testing.T) {
	assert.NotEmpty(t, FallbackExplanation)
	assert.NotEmpty(t, FallbackQuestions())
}
