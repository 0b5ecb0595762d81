package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractRelevantTextNoPatterns(t *testing.T) {
	assert.Equal(t, "", ExtractRelevantText("some chat text", nil, DefaultContextChars))
	assert.Equal(t, "", ExtractRelevantText("some chat text", []string{}, DefaultContextChars))
}

func TestExtractRelevantTextMissingPatternSkipped(t *testing.T) {
	out := ExtractRelevantText("nothing suspicious here", []string{"guaranteed profit"}, DefaultContextChars)
	assert.Equal(t, "", out)
}

func TestExtractRelevantTextWindow(t *testing.T) {
	text := "aaaa guaranteed profit bbbb"

	out := ExtractRelevantText(text, []string{"guaranteed profit"}, 5)

	assert.Equal(t, "aaaa guaranteed profit bbbb", out)
}

func TestExtractRelevantTextClampsToBounds(t *testing.T) {
	text := "urgent"

	out := ExtractRelevantText(text, []string{"urgent"}, 100)

	assert.Equal(t, "urgent", out)
}

func TestExtractRelevantTextCaseInsensitive(t *testing.T) {
	out := ExtractRelevantText("this is URGENT business", []string{"urgent"}, 4)
	assert.Contains(t, out, "URGENT")
}

func TestExtractRelevantTextDeduplicates(t *testing.T) {
	text := "send me money urgent"

	// Both windows cover the whole text, so only one snippet survives
	out := ExtractRelevantText(text, []string{"send me money", "urgent"}, 50)

	assert.Equal(t, "send me money urgent", out)
	assert.NotContains(t, out, snippetSeparator)
}

func TestExtractRelevantTextJoinsDistinctSnippets(t *testing.T) {
	text := "urgent! " + strings.Repeat("x", 200) + " guaranteed profit"

	out := ExtractRelevantText(text, []string{"urgent", "guaranteed profit"}, 5)

	parts := strings.Split(out, snippetSeparator)
	assert.Len(t, parts, 2)
	assert.Contains(t, parts[0], "urgent")
	assert.Contains(t, parts[1], "guaranteed profit")
}

func TestExtractRelevantTextCapped(t *testing.T) {
	text := strings.Repeat("y", 400) + "urgent" + strings.Repeat("z", 400)

	out := ExtractRelevantText(text, []string{"urgent"}, 300)

	assert.Equal(t, 500, len([]rune(out)))
}

func TestExtractRelevantTextNegativeContext(t *testing.T) {
	out := ExtractRelevantText("totally urgent matter", []string{"urgent"}, -10)
	assert.Equal(t, "urgent", out)
}

func TestExtractRelevantTextThai(t *testing.T) {
	text := "สวัสดีครับ ช่วยโอนเงินให้หน่อยได้ไหม ขอบคุณมาก"

	out := ExtractRelevantText(text, []string{"โอนเงิน"}, 5)

	assert.Contains(t, out, "โอนเงิน")
	// Windows are rune-based, so no mid-character cuts
	for _, r := range out {
		assert.NotEqual(t, '�', r)
	}
}
