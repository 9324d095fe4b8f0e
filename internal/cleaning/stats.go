package cleaning

import (
	"sort"
)

// median returns the median of the values; ok is false when the slice is
// empty. The input is not modified.
func median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// mode returns the most frequent value; ties break toward the
// lexicographically smallest value so imputation is deterministic.
func mode(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}

	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best := ""
	bestCount := 0
	for v, count := range counts {
		if count > bestCount || (count == bestCount && v < best) {
			best = v
			bestCount = count
		}
	}
	return best, true
}
