package search

import "math"

// Cosine returns the cosine similarity of two vectors.
// Mismatched lengths, empty or all-zero vectors, and non-finite inputs
// all degrade to 0 rather than erroring: a missing or malformed
// embedding simply contributes no semantic signal.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	return sim
}
