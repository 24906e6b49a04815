package dedupe

// StringSimilarity returns a normalized name similarity in [0,1] based on
// Levenshtein edit distance: (maxLen - distance) / maxLen. Two empty strings
// are defined as identical. Comparison is case-sensitive; callers normalize
// beforehand if needed.
func StringSimilarity(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}

	return float64(maxLen-levenshtein(a, b)) / float64(maxLen)
}

// levenshtein computes the classic edit distance with unit costs for
// insertion, deletion, and substitution. Two rows of the DP matrix are kept.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			deletion := prev[j] + 1
			insertion := curr[j-1] + 1
			substitution := prev[j-1] + cost

			min := deletion
			if insertion < min {
				min = insertion
			}
			if substitution < min {
				min = substitution
			}
			curr[j] = min
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}
