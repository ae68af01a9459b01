package source

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

var htmlTagPattern = regexp.MustCompile(`(?i)<(p|div|br|span|h[1-6]|ul|ol|li|strong|em|b|i|a|blockquote|table)\b[^>]*>`)

// blockTags end a line of text when converting HTML.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true, "pre": true,
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))

// NoteToPlainText reduces a note body to plain text. Notes stored as HTML
// have their tags stripped; everything else is treated as Markdown.
func NoteToPlainText(note string) string {
	if strings.TrimSpace(note) == "" {
		return ""
	}
	if htmlTagPattern.MatchString(note) {
		return NormalizeText(htmlToText(note))
	}
	return NormalizeText(markdownToText([]byte(note)))
}

// htmlToText keeps text content, turning block elements into line breaks.
func htmlToText(s string) string {
	var sb strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				skip++
				continue
			}
			if tag == "li" {
				sb.WriteString("\n- ")
				continue
			}
			if blockTags[tag] {
				sb.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
				continue
			}
			if blockTags[tag] && tag != "li" {
				sb.WriteString("\n\n")
			}
		}
	}
}

// markdownToText walks the Markdown AST and emits one paragraph per block.
func markdownToText(content []byte) string {
	doc := markdown.Parser().Parse(text.NewReader(content))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			line := extractTextFromNode(node, content)
			if line == "" {
				return ast.WalkSkipChildren, nil
			}
			if _, ok := node.Parent().(*ast.ListItem); ok {
				line = "- " + line
			}
			blocks = append(blocks, line)
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			var sb strings.Builder
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(content))
			}
			if code := strings.TrimSpace(sb.String()); code != "" {
				blocks = append(blocks, code)
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(blocks, "\n\n")
}

// extractTextFromNode concatenates the inline text below n.
func extractTextFromNode(n ast.Node, content []byte) string {
	var textBuilder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			textBuilder.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				textBuilder.WriteString(" ")
			}
		case *ast.String:
			textBuilder.Write(v.Value)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(textBuilder.String())
}
