package catalogue

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Snapshot is an immutable view of the catalogue. A match borrows one
// snapshot for its whole duration; reloading builds a new snapshot instead
// of changing an existing one.
type Snapshot struct {
	entries  []Entry
	source   string
	fallback bool
	loadedAt time.Time
	version  string
}

// NewSnapshot copies entries into a new snapshot
func NewSnapshot(source string, entries []Entry) *Snapshot {
	owned := make([]Entry, len(entries))
	copy(owned, entries)
	return &Snapshot{
		entries:  owned,
		source:   source,
		loadedAt: time.Now(),
		version:  versionOf(owned),
	}
}

// Entries returns a copy of the entries in catalogue order.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Source describes where the entries came from
func (s *Snapshot) Source() string {
	return s.source
}

// Fallback reports whether this is the built-in catalogue installed because
// the configured source could not be loaded.
func (s *Snapshot) Fallback() bool {
	return s.fallback
}

// LoadedAt returns when the snapshot was built
func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

// Version is a content hash of the entries. Two snapshots with the same
// entries in the same order share a version.
func (s *Snapshot) Version() string {
	return s.version
}

// Lookup finds an entry by name, ignoring case.
func (s *Snapshot) Lookup(name string) (Entry, bool) {
	for _, entry := range s.entries {
		if strings.EqualFold(entry.Name, name) {
			return entry, true
		}
	}
	return Entry{}, false
}

// Names returns the entry names sorted alphabetically.
func (s *Snapshot) Names() []string {
	names := make([]string, len(s.entries))
	for i, entry := range s.entries {
		names[i] = entry.Name
	}
	sort.Strings(names)
	return names
}

func versionOf(entries []Entry) string {
	h := sha256.New()
	for _, entry := range entries {
		h.Write([]byte(entry.Name))
		h.Write([]byte{0})
		h.Write([]byte(entry.Pattern.String()))
		h.Write([]byte{0})
		h.Write([]byte(strconv.Itoa(entry.SyllablesPerLine)))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil)[:8])
}
