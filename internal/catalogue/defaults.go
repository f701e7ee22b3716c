package catalogue

import (
	_ "embed"
	"fmt"
)

//go:embed defaults.json
var defaultsJSON []byte

// DefaultsSource names the built-in catalogue in Snapshot.Source.
const DefaultsSource = "builtin"

var defaultSnapshot = mustLoadDefaults()

func mustLoadDefaults() *Snapshot {
	entries, err := Decode(defaultsJSON, FormatJSON)
	if err != nil {
		panic(fmt.Sprintf("catalogue: built-in defaults are invalid: %v", err))
	}
	snap := NewSnapshot(DefaultsSource, entries)
	snap.fallback = true
	return snap
}

// Defaults returns the built-in catalogue, marked as a fallback snapshot.
// Snapshots are immutable, so the same value is shared by every caller.
func Defaults() *Snapshot {
	return defaultSnapshot
}
