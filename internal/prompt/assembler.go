package prompt

import (
	"strings"
	"unicode/utf8"
)

// TruncationMarker ends an enrichment section that was cut to fit the cap.
const TruncationMarker = "\n[... additional context truncated to fit the source limit ...]"

const sectionSeparator = "\n\n"

// MergeSource appends enrichment to base, keeping the result within maxChars
// runes by truncating the enrichment only. base is never shortened; when it
// leaves no room, the enrichment is dropped. maxChars <= 0 disables the cap.
func MergeSource(base, enrichment string, maxChars int) string {
	enrichment = strings.TrimSpace(enrichment)
	if enrichment == "" {
		return base
	}

	merged := base + sectionSeparator + enrichment
	if maxChars <= 0 || utf8.RuneCountInString(merged) <= maxChars {
		return merged
	}

	room := maxChars - utf8.RuneCountInString(base) - utf8.RuneCountInString(sectionSeparator) - utf8.RuneCountInString(TruncationMarker)
	if room <= 0 {
		return base
	}
	runes := []rune(enrichment)
	return base + sectionSeparator + strings.TrimRight(string(runes[:room]), " \t\n") + TruncationMarker
}
