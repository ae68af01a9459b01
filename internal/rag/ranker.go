package rag

import (
	"cmp"
	"math"
	"slices"
)

// Candidate is one vector to rank, tagged with its position in the document.
type Candidate struct {
	Index  int
	Vector []float32
}

// Scored is a selected candidate with its cosine similarity to the query.
type Scored struct {
	Index      int
	Similarity float64
}

// Cosine returns dot(a,b) / (|a|*|b|). It reports false when the vectors
// cannot be compared: empty, of different lengths, zero norm, or containing a
// non-finite element.
func Cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		if !isFinite(x) || !isFinite(y) {
			return 0, false
		}
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if !isFinite(sim) {
		return 0, false
	}
	return sim, true
}

// TopK ranks candidates by cosine similarity to query and returns the k best,
// re-sorted into ascending Index order so callers keep document order.
// Candidates that cannot be compared with query are skipped. Equal
// similarities rank the lower index first.
func TopK(query []float32, candidates []Candidate, k int) []Scored {
	if k <= 0 {
		return nil
	}

	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		sim, ok := Cosine(query, c.Vector)
		if !ok {
			continue
		}
		scored = append(scored, Scored{Index: c.Index, Similarity: sim})
	}

	slices.SortStableFunc(scored, func(a, b Scored) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	if len(scored) > k {
		scored = scored[:k]
	}

	slices.SortFunc(scored, func(a, b Scored) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return scored
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
