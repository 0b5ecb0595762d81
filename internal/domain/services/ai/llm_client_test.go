package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcvoramet/SentinelAI/pkg/logger"
)

func TestNewLLMClientDefaults(t *testing.T) {
	c := NewLLMClient(LLMConfig{Provider: "claude"}, logger.NewNop())

	assert.Equal(t, 20*time.Second, c.config.Timeout)
	assert.Equal(t, 0.3, c.config.Temperature)
	assert.Equal(t, 1024, c.config.MaxTokens)
	assert.Equal(t, "claude-3-sonnet-20240229", c.config.Model)

	c = NewLLMClient(LLMConfig{Provider: "openai"}, logger.NewNop())
	assert.Equal(t, "gpt-4-turbo", c.config.Model)
}

func TestCompleteUnsupportedProvider(t *testing.T) {
	c := NewLLMClient(LLMConfig{Provider: "bard"}, logger.NewNop())

	_, err := c.Complete(context.Background(), "system", "user")
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "json fence",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "plain fence",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounding prose",
			input: "Here is my analysis:\n{\"a\": 1}\nLet me know if you need more.",
			want:  `{"a": 1}`,
		},
		{
			name:  "no json at all",
			input: "I cannot answer that.",
			want:  "I cannot answer that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.input))
		})
	}
}
