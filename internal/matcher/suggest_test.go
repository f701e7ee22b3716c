package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	names := []string{"Anuṣṭubh", "Indravajrā", "Upendravajrā", "Vasantatilakā", "Mālinī"}

	tests := []struct {
		name     string
		target   string
		max      int
		expected []string
	}{
		{"missing diacritics", "anustubh", 0, []string{"Anuṣṭubh"}},
		{"case only", "MĀLINĪ", 0, []string{"Mālinī"}},
		{"nearest first", "endravajrā", 0, []string{"Indravajrā", "Upendravajrā"}},
		{"limit", "endravajrā", 1, []string{"Indravajrā"}},
		{"nothing close", "śārdūlavikrīḍita", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Suggest(tt.target, names, 0, tt.max))
		})
	}
}

func TestSuggest_DistanceLimit(t *testing.T) {
	names := []string{"Mālinī"}
	assert.Empty(t, Suggest("malini", names, 1, 0))
	assert.Equal(t, []string{"Mālinī"}, Suggest("malini", names, 2, 0))
}
