package ai

import "strings"

const (
	// DefaultContextChars is the window taken on each side of a match.
	DefaultContextChars = 50

	// maxSnippetLen caps the joined evidence text shown to the user.
	maxSnippetLen = 500

	snippetSeparator = " ... "
)

// ExtractRelevantText pulls bounded context windows around the first
// occurrence of each pattern, for display as detection evidence. Patterns
// that do not occur are skipped. Windows are measured in runes so that
// multi-byte scripts are never cut mid-character. Equal snippets are
// emitted once; the joined result is capped at 500 runes.
func ExtractRelevantText(text string, patterns []string, contextChars int) string {
	if contextChars < 0 {
		contextChars = 0
	}

	src := []rune(text)
	folded := []rune(foldCase(text))

	seen := make(map[string]struct{})
	var snippets []string

	for _, pattern := range patterns {
		needle := []rune(foldCase(pattern))
		idx := indexRunes(folded, needle)
		if idx < 0 {
			continue
		}

		start := idx - contextChars
		if start < 0 {
			start = 0
		}
		end := idx + len(needle) + contextChars
		if end > len(src) {
			end = len(src)
		}

		snippet := strings.TrimSpace(string(src[start:end]))
		if _, ok := seen[snippet]; ok {
			continue
		}
		seen[snippet] = struct{}{}
		snippets = append(snippets, snippet)
	}

	joined := strings.Join(snippets, snippetSeparator)
	if runes := []rune(joined); len(runes) > maxSnippetLen {
		return string(runes[:maxSnippetLen])
	}
	return joined
}

// indexRunes returns the index of the first occurrence of needle in
// haystack, or -1. Indices are rune positions, not byte offsets.
func indexRunes(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
