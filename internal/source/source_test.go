package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "  \n ", want: ""},
		{name: "line endings", in: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "hyphenated line break", in: "a well-known exam-\nple of hyphen-\n  ation", want: "a well-known example of hyphenation"},
		{name: "capitalized continuation kept", in: "Smith-\nJones", want: "Smith-\nJones"},
		{name: "whitespace runs", in: "a  \t b  c", want: "a b c"},
		{name: "trailing spaces", in: "a   \nb", want: "a\nb"},
		{name: "blank line runs", in: "a\n\n\n\n\nb\n \n \nc", want: "a\n\nb\n\nc"},
		{name: "soft hyphen and nul", in: "co\u00adoper\x00ate", want: "cooperate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNoteToPlainText(t *testing.T) {
	tests := []struct {
		name string
		note string
		want string
	}{
		{
			name: "empty",
			note: "   ",
			want: "",
		},
		{
			name: "html note",
			note: `<div data-schema-version="8"><p>First <b>bold</b> para</p><p>Second &amp; more</p><ul><li>a</li><li>b</li></ul><script>x()</script></div>`,
			want: "First bold para\n\nSecond & more\n\n- a\n- b",
		},
		{
			name: "markdown note",
			note: "# Heading\n\nSome *emphasis* and [a link](http://example.com).\n\n- one\n- two\n\n```\ncode block\n```\n",
			want: "Heading\n\nSome emphasis and a link.\n\n- one\n\n- two\n\ncode block",
		},
		{
			name: "plain text note",
			note: "just a remark\nacross lines",
			want: "just a remark across lines",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NoteToPlainText(tt.note); got != tt.want {
				t.Errorf("NoteToPlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatAnnotations(t *testing.T) {
	got := FormatAnnotations([]Annotation{
		{Type: "highlight", Text: "key  result", PageLabel: "4", Comment: "check this"},
		{Type: "highlight", Text: "plain quote"},
		{Type: "note", Comment: "standalone remark", PageLabel: "7"},
		{Type: "image"},
	})
	want := strings.Join([]string{
		`- [p. 4] "key result" (comment: check this)`,
		`- "plain quote"`,
		`- [p. 7] Comment: standalone remark`,
	}, "\n")
	if got != want {
		t.Errorf("FormatAnnotations() =\n%s\nwant\n%s", got, want)
	}
}

func TestBuildContent(t *testing.T) {
	it := Item{
		ID:    42,
		Title: "Paper A",
		Creators: []Creator{
			{FirstName: "Jane", LastName: "Doe"},
			{Name: "The Consortium"},
		},
		PublicationTitle: "Journal of Tests",
		Date:             "2021",
		AbstractNote:     "An abstract.",
		Notes:            []string{"<p>Note one</p>"},
		Annotations:      []Annotation{{Text: "highlight"}},
		FullText:         strings.Repeat("word ", 100),
	}

	got := BuildContent(it, 60)
	for _, want := range []string{
		"Title: Paper A",
		"Authors: Doe, Jane; The Consortium",
		"Journal: Journal of Tests",
		"Abstract:\nAn abstract.",
		"Notes:\nNote one",
		`Annotations:` + "\n" + `- "highlight"`,
		"Full text:\nword",
		FullTextTruncationMarker,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BuildContent() missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "DOI:") {
		t.Errorf("BuildContent() rendered an empty DOI")
	}

	if got := BuildContent(Item{ID: 1}, 0); got != "" {
		t.Errorf("BuildContent(empty item) = %q, want empty", got)
	}
}

func TestTruncateFullText(t *testing.T) {
	text := strings.Repeat("x", 100)
	if got := TruncateFullText(text, 0); got != text {
		t.Error("TruncateFullText() with no limit changed the text")
	}
	got := TruncateFullText(text, 50)
	if len([]rune(got)) > 50 || !strings.HasSuffix(got, FullTextTruncationMarker) {
		t.Errorf("TruncateFullText() = %q", got)
	}
	if got := TruncateFullText(text, 5); got != "" {
		t.Errorf("TruncateFullText() with no room = %q, want empty", got)
	}
}

func TestParseItem(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
		wantID  int64
	}{
		{
			name:   "json",
			data:   `{"id": 42, "title": "Paper A", "creators": [{"lastName": "Doe"}], "annotations": [{"annotationText": "hi"}]}`,
			format: FormatJSON,
			wantID: 42,
		},
		{
			name:   "yaml",
			data:   "id: 7\ntitle: Paper B\nabstractNote: Something\n",
			format: FormatYAML,
			wantID: 7,
		},
		{
			name:    "missing id",
			data:    `{"title": "no id"}`,
			format:  FormatJSON,
			wantErr: ErrInvalidItem,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := ParseItem([]byte(tt.data), tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseItem() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseItem() error = %v", err)
			}
			if it.ID != tt.wantID {
				t.Errorf("ParseItem() id = %d, want %d", it.ID, tt.wantID)
			}
		})
	}

	if _, err := ParseItem([]byte("{broken"), FormatJSON); err == nil {
		t.Error("ParseItem() accepted malformed JSON")
	}
}

func TestFormatForPath(t *testing.T) {
	if FormatForPath("a/b.YML") != FormatYAML || FormatForPath("x.yaml") != FormatYAML {
		t.Error("FormatForPath() did not detect YAML")
	}
	if FormatForPath("x.json") != FormatJSON || FormatForPath("x") != FormatJSON {
		t.Error("FormatForPath() did not default to JSON")
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

func TestLibrary_Scan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.json", `{"id": 1}`)
	writeFile(t, root, "robotics/b.yaml", "id: 2\n")
	writeFile(t, root, "robotics/deep/c.json", `{"id": 3}`)
	writeFile(t, root, "robotics/readme.md", "# not an item")
	writeFile(t, root, ".cache/d.json", `{"id": 4}`)
	writeFile(t, root, "robotics/.hidden.json", `{"id": 5}`)

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{name: "default pattern", pattern: "", want: []string{"a.json", "robotics/b.yaml", "robotics/deep/c.json"}},
		{name: "json only", pattern: "**/*.json", want: []string{"a.json", "robotics/deep/c.json"}},
		{name: "one folder", pattern: "robotics/*", want: []string{"robotics/b.yaml", "robotics/readme.md"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := NewLibrary(root, tt.pattern)
			if err != nil {
				t.Fatalf("NewLibrary() error = %v", err)
			}
			files, err := lib.Scan(context.Background())
			if err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			var got []string
			for _, f := range files {
				got = append(got, f.RelPath)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("Scan() = %v, want %v", got, tt.want)
			}
		})
	}

	lib, _ := NewLibrary(root, "")
	files, _ := lib.Scan(context.Background())
	for _, f := range files {
		if _, err := LoadItem(f.AbsPath); err != nil {
			t.Errorf("LoadItem(%s) error = %v", f.RelPath, err)
		}
	}
}

func TestLibrary_InvalidPatternAndCancel(t *testing.T) {
	if _, err := NewLibrary(t.TempDir(), "[unclosed"); err == nil {
		t.Error("NewLibrary() accepted an invalid pattern")
	}

	root := t.TempDir()
	writeFile(t, root, "a.json", `{"id": 1}`)
	lib, _ := NewLibrary(root, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lib.Scan(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() with cancelled context error = %v", err)
	}
}
