package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTemplatesFromFile_OverlaysDefaults(t *testing.T) {
	path := writeFixture(t, "templates.yaml", `
severability: "Eigene salvatorische Klausel der Kanzlei."
hausordnung: "Die Hausordnung ist Bestandteil des Vertrages."
`)

	merged, err := LoadTemplatesFromFile(path)
	require.NoError(t, err)

	// Overridden, added, and untouched entries.
	assert.Equal(t, "Eigene salvatorische Klausel der Kanzlei.", merged["severability"])
	assert.Equal(t, "Die Hausordnung ist Bestandteil des Vertrages.", merged["hausordnung"])
	assert.Equal(t, ClauseTemplates["liability"], merged["liability"])
	// The built-in map stays untouched.
	assert.NotEqual(t, merged["severability"], ClauseTemplates["severability"])
}

func TestLoadTemplatesFromFile_Missing(t *testing.T) {
	_, err := LoadTemplatesFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadTemplatesFromFile_InvalidYAML(t *testing.T) {
	path := writeFixture(t, "broken.yaml", "severability: [unclosed")
	_, err := LoadTemplatesFromFile(path)
	assert.Error(t, err)
}

func TestLoadMandatoryTopicsFromFile(t *testing.T) {
	path := writeFixture(t, "topics.yaml", `
- id: minimum_leave
  label: Gesetzlicher Mindesturlaub
  category: vacation
  applies_to: [arbeitsvertrag]
- id: rent_cap
  label: Mietpreisbremse
  category: payment
  applies_to: [mietvertrag]
`)

	topics, err := LoadMandatoryTopicsFromFile(path)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "rent_cap", topics[1].ID)
	assert.Equal(t, []string{"mietvertrag"}, topics[1].AppliesTo)
}

func TestLoadMandatoryTopicsFromFile_UnknownCategory(t *testing.T) {
	path := writeFixture(t, "topics.yaml", `
- id: broken
  label: Kaputt
  category: keine_echte_kategorie
`)

	_, err := LoadMandatoryTopicsFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keine_echte_kategorie")
}

func TestLoadTaxonomyFromFile(t *testing.T) {
	path := writeFixture(t, "taxonomy.yaml", `
- tag: pachtvertrag
  label: Pachtvertrag
  keywords: [pächter, verpächter, pachtzins]
  party_a: Verpächter
  party_b: Pächter
`)

	types, err := LoadTaxonomyFromFile(path)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.Equal(t, "pachtvertrag", types[0].Tag)
	assert.Equal(t, "Verpächter", types[0].PartyA)
}

func TestLoadTaxonomyFromFile_Empty(t *testing.T) {
	path := writeFixture(t, "taxonomy.yaml", "")
	_, err := LoadTaxonomyFromFile(path)
	assert.Error(t, err)
}
