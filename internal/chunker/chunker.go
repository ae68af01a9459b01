package chunker

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultMaxChars is the chunk budget in runes used when none is configured.
	DefaultMaxChars = 1200
	// DefaultMaxChunks caps how many chunks one document yields.
	DefaultMaxChunks = 60

	// hardSplitFactor: paragraphs longer than this multiple of the budget are
	// cut into budget-sized windows.
	hardSplitFactor = 1.5
	// boundaryWindow is the fraction of a window searched backwards for a
	// sentence or word boundary before cutting mid-word.
	boundaryWindow = 5
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n`)

// Chunker splits normalized text into paragraph-aware chunks.
type Chunker struct {
	maxChars  int
	maxChunks int
}

// New creates a chunker with a budget of maxChars runes per chunk that stops
// after maxChunks chunks. maxChars <= 0 selects DefaultMaxChars; maxChunks <= 0
// means no limit.
func New(maxChars, maxChunks int) *Chunker {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Chunker{maxChars: maxChars, maxChunks: maxChunks}
}

// MaxChars returns the chunk budget in runes.
func (c *Chunker) MaxChars() int {
	return c.maxChars
}

// Chunks returns a lazy sequence over the chunks of text. Whole paragraphs are
// packed greedily, joined by a blank line. A paragraph that does not fit the
// budget on its own is split: near its middle when it is at most 1.5x the
// budget, otherwise into budget-sized windows. The sequence can be ranged
// over any number of times and always yields the same chunks.
func (c *Chunker) Chunks(text string) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		index := 0
		emit := func(s string) bool {
			if c.maxChunks > 0 && index >= c.maxChunks {
				return false
			}
			if !yield(Chunk{Index: index, Text: s}) {
				return false
			}
			index++
			return c.maxChunks <= 0 || index < c.maxChunks
		}

		var current strings.Builder
		currentLen := 0
		flush := func() bool {
			if currentLen == 0 {
				return true
			}
			s := current.String()
			current.Reset()
			currentLen = 0
			return emit(s)
		}

		for _, para := range paragraphs(text) {
			n := utf8.RuneCountInString(para)

			if n > c.maxChars {
				if !flush() {
					return
				}
				for _, piece := range c.splitParagraph(para, n) {
					if !emit(piece) {
						return
					}
				}
				continue
			}

			if currentLen > 0 && currentLen+2+n > c.maxChars {
				if !flush() {
					return
				}
			}
			if currentLen > 0 {
				current.WriteString("\n\n")
				currentLen += 2
			}
			current.WriteString(para)
			currentLen += n
		}
		flush()
	}
}

// Split collects every chunk of text.
func (c *Chunker) Split(text string) []Chunk {
	var out []Chunk
	for ch := range c.Chunks(text) {
		out = append(out, ch)
	}
	return out
}

// paragraphs splits text on blank lines, dropping empty paragraphs.
func paragraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	raw := paragraphBreak.Split(text, -1)
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitParagraph cuts an oversized paragraph of n runes into pieces that each
// fit the budget.
func (c *Chunker) splitParagraph(para string, n int) []string {
	runes := []rune(para)

	if float64(n) <= hardSplitFactor*float64(c.maxChars) {
		// Both halves must fit: cut in [n-maxChars, maxChars], preferring a
		// boundary at or before the middle.
		lo := n - c.maxChars
		cut := boundaryBefore(runes, n/2, lo)
		head := strings.TrimSpace(string(runes[:cut]))
		tail := strings.TrimSpace(string(runes[cut:]))
		return nonEmpty(head, tail)
	}

	var out []string
	for len(runes) > c.maxChars {
		lo := c.maxChars - c.maxChars/boundaryWindow
		cut := boundaryBefore(runes, c.maxChars, lo)
		if piece := strings.TrimSpace(string(runes[:cut])); piece != "" {
			out = append(out, piece)
		}
		runes = trimLeftSpace(runes[cut:])
	}
	if piece := strings.TrimSpace(string(runes)); piece != "" {
		out = append(out, piece)
	}
	return out
}

// boundaryBefore returns a cut position in (lo, hi]: just after the last
// sentence end in that range, else just after the last space, else hi.
func boundaryBefore(runes []rune, hi, lo int) int {
	hi = min(hi, len(runes))
	lo = max(lo, 0)

	for i := hi - 1; i > lo; i-- {
		if unicode.IsSpace(runes[i]) && isSentenceEnd(runes[i-1]) {
			return i
		}
	}
	for i := hi - 1; i > lo; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return hi
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', ';':
		return true
	}
	return false
}

func trimLeftSpace(runes []rune) []rune {
	for len(runes) > 0 && unicode.IsSpace(runes[0]) {
		runes = runes[1:]
	}
	return runes
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
