package catalogue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSONShapes(t *testing.T) {
	data := []byte(`[
		{"name": "Compact", "pattern": "LGLG", "syllables_per_pada": 4},
		{"chandas": "Spaced", "lg": "L G L G"},
		{"title": "Listed", "patterns": ["LG", "GL"]},
		{"id": "Separated", "pat": "LG|GL", "syllables_per_line": 2},
		{"name": "Empty"}
	]`)

	entries, err := Decode(data, FormatJSON)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	assert.Equal(t, "Compact", entries[0].Name)
	assert.Equal(t, []string{"LGLG"}, entries[0].Pattern.Lines())
	assert.Equal(t, 4, entries[0].SyllablesPerLine)

	assert.Equal(t, "Spaced", entries[1].Name)
	assert.Equal(t, []string{"LGLG"}, entries[1].Pattern.Lines())
	assert.Zero(t, entries[1].SyllablesPerLine)

	assert.Equal(t, "Listed", entries[2].Name)
	assert.Equal(t, []string{"LG", "GL"}, entries[2].Pattern.Lines())

	assert.Equal(t, "Separated", entries[3].Name)
	assert.Equal(t, []string{"LG", "GL"}, entries[3].Pattern.Lines())
	assert.Equal(t, 2, entries[3].SyllablesPerLine)

	assert.True(t, entries[4].Pattern.IsEmpty())
}

func TestDecode_DataEnvelope(t *testing.T) {
	entries, err := Decode([]byte(`{"data": [{"name": "A", "pattern": "LG"}]}`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].Name)
}

func TestDecode_YAML(t *testing.T) {
	data := []byte(`
- name: Anuṣṭubh
  pattern: L G L L G G L G
  syllables_per_pada: 8
- name: Pair
  pattern:
    - LG
    - GL
`)
	entries, err := Decode(data, FormatYAML)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Anuṣṭubh", entries[0].Name)
	assert.Equal(t, []string{"LGLLGGLG"}, entries[0].Pattern.Lines())
	assert.Equal(t, 8, entries[0].SyllablesPerLine)
	assert.Equal(t, []string{"LG", "GL"}, entries[1].Pattern.Lines())
}

func TestDecode_HintMustBeAPositiveWholeNumber(t *testing.T) {
	data := []byte(`[
		{"name": "A", "pattern": "LG", "syllables_per_pada": 2.5},
		{"name": "B", "pattern": "LG", "syllables_per_pada": -1},
		{"name": "C", "pattern": "LG", "syllables_per_pada": "8"}
	]`)
	entries, err := Decode(data, FormatJSON)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.Zero(t, entry.SyllablesPerLine, entry.Name)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"invalid json", `[{"name": `, FormatJSON},
		{"invalid yaml", "- name: [unclosed", FormatYAML},
		{"scalar root", `"hello"`, FormatJSON},
		{"object without data", `{"items": []}`, FormatJSON},
		{"entry not an object", `["LG"]`, FormatJSON},
		{"entry without a name", `[{"pattern": "LG"}]`, FormatJSON},
		{"unsupported pattern", `[{"name": "A", "pattern": {"x": 1}}]`, FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode([]byte(`[]`), FormatJSON)
	assert.True(t, errors.Is(err, ErrEmptyCatalogue))

	_, err = Decode([]byte(`null`), FormatJSON)
	assert.True(t, errors.Is(err, ErrEmptyCatalogue))
}

func TestDecode_NamelessEntryWrapsErrNoName(t *testing.T) {
	_, err := Decode([]byte(`[{"pattern": "LG"}]`), FormatJSON)
	assert.True(t, errors.Is(err, ErrNoName))
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatForPath("meters.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("meters.YML"))
	assert.Equal(t, FormatJSON, FormatForPath("chandas_db.json"))
	assert.Equal(t, FormatJSON, FormatForPath("catalogue"))
}

func TestDefaults(t *testing.T) {
	snap := Defaults()
	require.NotNil(t, snap)
	assert.True(t, snap.Fallback())
	assert.Equal(t, DefaultsSource, snap.Source())
	assert.Greater(t, snap.Len(), 2)

	anustubh, ok := snap.Lookup("anuṣṭubh")
	require.True(t, ok)
	assert.Equal(t, []string{"LGLLGGLG"}, anustubh.Pattern.Lines())
	assert.Equal(t, 8, anustubh.SyllablesPerLine)

	for _, entry := range snap.Entries() {
		assert.False(t, entry.Pattern.IsEmpty(), entry.Name)
		for _, line := range entry.Pattern.Lines() {
			assert.Len(t, line, entry.SyllablesPerLine, entry.Name)
		}
	}
}
