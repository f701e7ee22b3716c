package catalogue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePattern(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		expect []string
	}{
		{"compact", "LGLG", []string{"LGLG"}},
		{"spaced", "L G L G L G", []string{"LGLGLG"}},
		{"separated", "LGLGLG|GGLGLG", []string{"LGLGLG", "GGLGLG"}},
		{"lower case", "lg|gl", []string{"LG", "GL"}},
		{"blank line dropped", "LG|  |GL", []string{"LG", "GL"}},
		{"noise stripped", "L-G (x) G", []string{"LGG"}},
		{"empty", "", []string{}},
		{"no symbols", "abc", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePattern(tt.raw)
			assert.Equal(t, tt.expect, p.Lines())
			assert.Equal(t, len(tt.expect), p.Len())
			assert.Equal(t, tt.raw, p.Raw())
		})
	}
}

func TestPatternFromLines(t *testing.T) {
	p := PatternFromLines([]string{"LG L", "", "g g", "--"})
	assert.Equal(t, []string{"LGL", "GG"}, p.Lines())
	assert.Equal(t, "LGL|GG", p.String())
	assert.False(t, p.IsEmpty())
}

func TestPatternFromLines_KeepsBarInsideElement(t *testing.T) {
	// list elements are lines; a separator inside one is just noise
	p := PatternFromLines([]string{"LG|GL"})
	assert.Equal(t, []string{"LGGL"}, p.Lines())
}

func TestPattern_LinesIsACopy(t *testing.T) {
	p := ParsePattern("LG|GL")
	lines := p.Lines()
	lines[0] = "GGGG"
	assert.Equal(t, []string{"LG", "GL"}, p.Lines())
}

func TestPattern_ZeroValue(t *testing.T) {
	var p Pattern
	assert.True(t, p.IsEmpty())
	assert.Equal(t, "", p.String())
	assert.Empty(t, p.Lines())
}

func TestPattern_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewEntry("Test", "L G | G L", 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Test","pattern":"LG|GL","syllables_per_pada":2}`, string(data))
}
