package source

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// FullTextTruncationMarker ends full text that was cut to fit.
const FullTextTruncationMarker = "\n[... full text truncated ...]"

// FormatAnnotations renders annotations one per line in the form
// `- [p. 4] "highlighted text" (comment: remark)`.
func FormatAnnotations(annotations []Annotation) string {
	var lines []string
	for _, a := range annotations {
		quoted := NormalizeText(a.Text)
		comment := NormalizeText(a.Comment)
		if quoted == "" && comment == "" {
			continue
		}

		var sb strings.Builder
		sb.WriteString("- ")
		if a.PageLabel != "" {
			fmt.Fprintf(&sb, "[p. %s] ", a.PageLabel)
		}
		switch {
		case quoted != "" && comment != "":
			fmt.Fprintf(&sb, "%q (comment: %s)", quoted, comment)
		case quoted != "":
			fmt.Fprintf(&sb, "%q", quoted)
		default:
			fmt.Fprintf(&sb, "Comment: %s", comment)
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// BuildContent assembles the source material for an extraction prompt from
// item metadata, abstract, notes, annotations and full text. The full text
// is normalized and cut to maxFullText runes (<= 0 keeps all of it).
func BuildContent(it Item, maxFullText int) string {
	var sections []string

	var meta []string
	addMeta := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			meta = append(meta, label+": "+value)
		}
	}
	addMeta("Title", it.Title)
	addMeta("Authors", it.Authors())
	addMeta("Journal", it.PublicationTitle)
	addMeta("Date", it.Date)
	addMeta("DOI", it.DOI)
	if len(it.Tags) > 0 {
		addMeta("Tags", strings.Join(it.Tags, ", "))
	}
	if len(meta) > 0 {
		sections = append(sections, strings.Join(meta, "\n"))
	}

	if abstract := NormalizeText(it.AbstractNote); abstract != "" {
		sections = append(sections, "Abstract:\n"+abstract)
	}

	var notes []string
	for _, n := range it.Notes {
		if plain := NoteToPlainText(n); plain != "" {
			notes = append(notes, plain)
		}
	}
	if len(notes) > 0 {
		sections = append(sections, "Notes:\n"+strings.Join(notes, "\n\n"))
	}

	if annotations := FormatAnnotations(it.Annotations); annotations != "" {
		sections = append(sections, "Annotations:\n"+annotations)
	}

	if full := TruncateFullText(NormalizeText(it.FullText), maxFullText); full != "" {
		sections = append(sections, "Full text:\n"+full)
	}

	return strings.Join(sections, "\n\n")
}

// TruncateFullText cuts s to at most maxChars runes including the marker.
func TruncateFullText(s string, maxChars int) string {
	if maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	keep := maxChars - utf8.RuneCountInString(FullTextTruncationMarker)
	if keep <= 0 {
		return ""
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:keep])) + FullTextTruncationMarker
}
