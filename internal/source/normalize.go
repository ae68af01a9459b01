package source

import (
	"regexp"
	"strings"
)

var (
	hyphenatedBreak = regexp.MustCompile(`(\p{L})-\n[ \t]*(\p{Ll})`)
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	trailingSpace   = regexp.MustCompile(`[ \t]+\n`)
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
)

// NormalizeText cleans extracted PDF or note text for prompting and chunking:
// unified line endings, words re-joined across hyphenated line breaks,
// collapsed horizontal whitespace and at most one blank line in a row.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\u00ad", "")
	s = strings.ReplaceAll(s, "\x00", "")
	s = hyphenatedBreak.ReplaceAllString(s, "$1$2")
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = trailingSpace.ReplaceAllString(s, "\n")
	s = excessNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
