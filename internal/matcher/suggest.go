package matcher

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the default maximum edit distance for a name suggestion
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions is the default maximum number of suggestions to return
	DefaultMaxSuggestions = 3
)

type suggestion struct {
	value    string
	distance int
}

// Suggest returns the meter names closest to target, nearest first, for
// "did you mean" messages. Comparison ignores case. Zero limits use the
// defaults.
//
//	Suggest("anustubh", snap.Names(), 0, 0) // ["Anuṣṭubh"]
func Suggest(target string, candidates []string, maxDistance, maxSuggestions int) []string {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}

	want := strings.ToLower(strings.TrimSpace(target))
	var found []suggestion
	for _, candidate := range candidates {
		dist := Distance(want, strings.ToLower(candidate))
		if dist <= maxDistance {
			found = append(found, suggestion{value: candidate, distance: dist})
		}
	}

	// stable so equal distances keep catalogue order
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].distance < found[j].distance
	})

	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(found) && i < maxSuggestions; i++ {
		result = append(result, found[i].value)
	}
	return result
}
