package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := DefaultCatalog()

	assert.Equal(t, 20, catalog.Len())
	for _, entry := range catalog.Entries() {
		assert.NotEmpty(t, entry.Phrase)
		assert.GreaterOrEqual(t, entry.Weight, 1)
		assert.LessOrEqual(t, entry.Weight, 3)
	}
}

func TestLoadCatalogEmptyPathUsesDefault(t *testing.T) {
	catalog, err := LoadCatalog("")

	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().Entries(), catalog.Entries())
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := writeCatalog(t, `
patterns:
  - phrase: free bitcoin
    weight: 3
  - phrase: ด่วนมาก
    weight: 2
`)

	catalog, err := LoadCatalog(path)

	require.NoError(t, err)
	require.Equal(t, 2, catalog.Len())
	assert.Equal(t, "free bitcoin", catalog.Entries()[0].Phrase)
	assert.Equal(t, 3, catalog.Entries()[0].Weight)
	assert.Equal(t, "ด่วนมาก", catalog.Entries()[1].Phrase)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadCatalogInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "{{{"},
		{name: "empty", yaml: "patterns: []"},
		{name: "empty phrase", yaml: "patterns:\n  - phrase: \"\"\n    weight: 2\n"},
		{name: "zero weight", yaml: "patterns:\n  - phrase: urgent\n    weight: 0\n"},
		{name: "negative weight", yaml: "patterns:\n  - phrase: urgent\n    weight: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeCatalog(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
