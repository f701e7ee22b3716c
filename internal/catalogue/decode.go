package catalogue

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a catalogue file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrEmptyCatalogue is returned when a source yields no usable entry.
var ErrEmptyCatalogue = errors.New("catalogue: no entries")

// FormatForPath picks the format from a file extension. Unknown extensions
// are read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses catalogue data. The root is either a list of entries or an
// object whose "data" field is that list.
func Decode(data []byte, format Format) ([]Entry, error) {
	var root any
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse yaml catalogue: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, fmt.Errorf("failed to parse json catalogue: %w", err)
		}
	}

	records, err := recordList(root)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for i, raw := range records {
		record, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("catalogue: entry %d is %T, not an object", i, raw)
		}
		entry, err := entryFromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("catalogue: entry %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, ErrEmptyCatalogue
	}
	return entries, nil
}

func recordList(root any) ([]any, error) {
	switch v := root.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if data, ok := v["data"].([]any); ok {
			return data, nil
		}
		return nil, errors.New(`catalogue: object root has no "data" list`)
	case nil:
		return nil, ErrEmptyCatalogue
	default:
		return nil, fmt.Errorf("catalogue: unexpected root type %T", root)
	}
}
