// Package catalogue holds the reference meters that verses are matched
// against, and the machinery that loads, snapshots and hot-reloads them.
package catalogue

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Entry is one named reference meter.
type Entry struct {
	Name    string  `json:"name"`
	Pattern Pattern `json:"pattern"`
	// SyllablesPerLine is the expected syllable count of every line; zero
	// means the entry gives no hint.
	SyllablesPerLine int `json:"syllables_per_pada,omitempty"`
}

// NewEntry builds an entry from a string pattern
func NewEntry(name, pattern string, syllablesPerLine int) Entry {
	return Entry{
		Name:             name,
		Pattern:          ParsePattern(pattern),
		SyllablesPerLine: syllablesPerLine,
	}
}

// Field aliases accepted in catalogue files, in lookup order.
var (
	nameKeys     = []string{"name", "chandas", "title", "id"}
	patternKeys  = []string{"pattern", "lg", "pat", "patterns"}
	syllableKeys = []string{"syllables_per_pada", "syllables_per_line"}
)

// ErrNoName is returned for a record with none of the name fields.
var ErrNoName = errors.New("catalogue: entry has no name")

// entryFromRecord converts one decoded JSON/YAML object into an Entry.
func entryFromRecord(record map[string]any) (Entry, error) {
	var entry Entry

	if v := firstPresent(record, nameKeys); v != nil {
		entry.Name = strings.TrimSpace(fmt.Sprint(v))
	}
	if entry.Name == "" {
		return Entry{}, ErrNoName
	}

	switch v := firstPresent(record, patternKeys).(type) {
	case nil:
		entry.Pattern = Pattern{}
	case string:
		entry.Pattern = ParsePattern(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if item != nil {
				items = append(items, fmt.Sprint(item))
			}
		}
		entry.Pattern = PatternFromLines(items)
	default:
		return Entry{}, fmt.Errorf("catalogue: entry %q: unsupported pattern type %T", entry.Name, v)
	}

	entry.SyllablesPerLine = positiveInt(firstPresent(record, syllableKeys))

	return entry, nil
}

func firstPresent(record map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := record[key]; ok && v != nil && v != "" {
			return v
		}
	}
	return nil
}

// positiveInt accepts whole positive numbers as decoded by encoding/json
// (float64) or yaml.v3 (int); anything else is no hint.
func positiveInt(v any) int {
	switch n := v.(type) {
	case int:
		if n > 0 {
			return n
		}
	case int64:
		if n > 0 {
			return int(n)
		}
	case float64:
		if n > 0 && n == math.Trunc(n) {
			return int(n)
		}
	}
	return 0
}
