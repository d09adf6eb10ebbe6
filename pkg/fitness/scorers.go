package fitness

import "strings"

// TokenF1 scores token-level overlap between the answer and the expected
// string: the harmonic mean of precision and recall over whitespace-separated
// tokens. Useful when answers are phrases that rarely match exactly.
func TokenF1(got, want string) float64 {
	gotTokens := strings.Fields(got)
	wantTokens := strings.Fields(want)

	if len(gotTokens) == 0 && len(wantTokens) == 0 {
		return 1
	}
	if len(gotTokens) == 0 || len(wantTokens) == 0 {
		return 0
	}

	overlap := tokenOverlap(wantTokens, gotTokens)
	if overlap == 0 {
		return 0
	}

	precision := float64(overlap) / float64(len(gotTokens))
	recall := float64(overlap) / float64(len(wantTokens))
	return 2 * precision * recall / (precision + recall)
}

// tokenOverlap counts tokens of b present in a, respecting multiplicity.
func tokenOverlap(a, b []string) int {
	counts := make(map[string]int, len(a))
	for _, tok := range a {
		counts[tok]++
	}

	overlap := 0
	for _, tok := range b {
		if counts[tok] > 0 {
			counts[tok]--
			overlap++
		}
	}
	return overlap
}

// Contains scores 1 when the answer contains the expected string after
// trimming, 0 otherwise. Forgiving toward models that wrap the answer in
// prose.
func Contains(got, want string) float64 {
	want = strings.TrimSpace(want)
	if want == "" {
		return 0
	}
	if strings.Contains(strings.TrimSpace(got), want) {
		return 1
	}
	return 0
}
