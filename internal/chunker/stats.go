package chunker

import (
	"math"
	"slices"
	"unicode/utf8"
)

// TokensPerRune is an approximation for token counting (4 chars per token).
const TokensPerRune = 4.0

// Stats summarizes chunk sizes for logging.
type Stats struct {
	// Count is the number of chunks.
	Count int `json:"count"`
	// TotalRunes is the summed length of all chunks.
	TotalRunes int `json:"total_runes"`
	// Tokens holds approximate per-chunk token statistics.
	Tokens TokenStats `json:"tokens"`
}

// TokenStats contains statistics about token counts in chunks.
type TokenStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// Summarize computes size statistics over chunks.
func Summarize(chunks []Chunk) Stats {
	stats := Stats{Count: len(chunks)}
	if len(chunks) == 0 {
		return stats
	}

	tokenCounts := make([]int, 0, len(chunks))
	for _, ch := range chunks {
		runeCount := utf8.RuneCountInString(ch.Text)
		stats.TotalRunes += runeCount
		tokenCounts = append(tokenCounts, EstimateTokens(runeCount))
	}
	stats.Tokens = computeTokenStats(tokenCounts)
	return stats
}

// EstimateTokens approximates the token count of runeCount runes, minimum 1.
func EstimateTokens(runeCount int) int {
	return max(int(math.Round(float64(runeCount)/TokensPerRune)), 1)
}

// computeTokenStats computes min, max, mean, and p95 from token counts.
func computeTokenStats(tokenCounts []int) TokenStats {
	if len(tokenCounts) == 0 {
		return TokenStats{}
	}

	sorted := slices.Clone(tokenCounts)
	slices.Sort(sorted)

	sum := 0
	for _, count := range sorted {
		sum += count
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := min(int(math.Ceil(float64(len(sorted))*0.95)), len(sorted)-1)

	return TokenStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
