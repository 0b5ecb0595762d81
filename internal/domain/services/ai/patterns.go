package ai

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PatternEntry is one weighted scam phrase. Phrases are literal substrings
// in any script; weights are small positive integers so scores stay
// human-interpretable.
type PatternEntry struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Weight int    `yaml:"weight" json:"weight"`
}

// PatternCatalog is the immutable table of scam phrases loaded at startup.
type PatternCatalog struct {
	entries []PatternEntry
}

// DefaultCatalog returns the built-in scam phrase catalog. High-risk
// phrases weigh 3, common-in-scams phrases 2, suspicious-but-ambiguous
// phrases 1. English and Thai phrases co-exist in one table.
func DefaultCatalog() *PatternCatalog {
	return &PatternCatalog{entries: []PatternEntry{
		// Strong scam indicators
		{Phrase: "guaranteed profit", Weight: 3},
		{Phrase: "การันตีกำไร", Weight: 3},
		{Phrase: "send me money", Weight: 3},
		{Phrase: "โอนเงิน", Weight: 3},
		{Phrase: "don't tell anyone", Weight: 3},
		{Phrase: "อย่าบอกใคร", Weight: 3},

		// Common in scams but could be legitimate
		{Phrase: "investment opportunity", Weight: 2},
		{Phrase: "ลงทุน", Weight: 2},
		{Phrase: "USDT", Weight: 2},
		{Phrase: "crypto", Weight: 2},
		{Phrase: "urgent", Weight: 2},
		{Phrase: "รีบด่วน", Weight: 2},
		{Phrase: "limited time", Weight: 2},
		{Phrase: "Western Union", Weight: 2},

		// Suspicious, needs more context
		{Phrase: "passive income", Weight: 1},
		{Phrase: "รายได้เสริม", Weight: 1},
		{Phrase: "100% safe", Weight: 1},
		{Phrase: "no risk", Weight: 1},
		{Phrase: "ไม่มีความเสี่ยง", Weight: 1},
		{Phrase: "act now", Weight: 1},
	}}
}

// catalogFile is the on-disk shape of a pattern catalog artifact.
type catalogFile struct {
	Patterns []PatternEntry `yaml:"patterns"`
}

// LoadCatalog reads a pattern catalog from a YAML file. An empty path
// selects the built-in catalog, so deployments can update phrases without a
// rebuild but do not have to ship a file.
func LoadCatalog(path string) (*PatternCatalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse pattern catalog: %w", err)
	}

	if len(file.Patterns) == 0 {
		return nil, fmt.Errorf("pattern catalog %s contains no patterns", path)
	}

	for i, entry := range file.Patterns {
		if entry.Phrase == "" {
			return nil, fmt.Errorf("pattern catalog entry %d has an empty phrase", i)
		}
		if entry.Weight <= 0 {
			return nil, fmt.Errorf("pattern %q has non-positive weight %d", entry.Phrase, entry.Weight)
		}
	}

	return &PatternCatalog{entries: file.Patterns}, nil
}

// Entries returns a copy of the catalog entries in scan order.
func (c *PatternCatalog) Entries() []PatternEntry {
	out := make([]PatternEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of catalog entries.
func (c *PatternCatalog) Len() int {
	return len(c.entries)
}
