package matcher

// Distance calculates the Levenshtein distance between two symbol strings.
// This is the minimum number of single-symbol edits (insertions, deletions,
// or substitutions) required to change one string into the other.
//
// Example:
//
//	Distance("LGLG", "LGG")   // Returns: 1
//	Distance("LLGG", "GGLL")  // Returns: 4
func Distance(a, b string) int {
	s1 := []rune(a)
	s2 := []rune(b)

	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Create matrix
	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}

	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

// LineSimilarity scores a verse line against a canonical line already
// stretched to the same length. Two empty lines are a perfect match.
// The result is in [0, 1].
func LineSimilarity(line, canonical string) float64 {
	if line == "" && canonical == "" {
		return 1.0
	}
	if line == "" {
		return 0.0
	}
	dist := Distance(line, canonical)
	sim := 1.0 - float64(dist)/float64(len(line))
	if sim < 0 {
		return 0.0
	}
	return sim
}
