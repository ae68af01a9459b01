package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func init() {
	// Set default logger to discard output for cleaner test output
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeEmbedder maps each text to a vector with fn and records calls.
type fakeEmbedder struct {
	fn    func(text string) []float32
	err   error
	block bool

	calls    atomic.Int32
	inflight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	batches  [][]string
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls.Add(1)
	n := f.inflight.Add(1)
	defer f.inflight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.batches = append(f.batches, texts)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	// Give concurrent batches a chance to overlap.
	time.Sleep(time.Millisecond)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.fn(t)
	}
	return out, nil
}

// topicVectors puts the query and chunks mentioning "grasp" on one axis and
// everything else on the other.
func topicVectors(text string) []float32 {
	switch {
	case strings.HasPrefix(text, "Main findings"):
		return []float32{1, 0}
	case strings.Contains(text, "grasp"):
		return []float32{1, 0.2}
	default:
		return []float32{0.1, 1}
	}
}

func paragraphText(topics ...string) string {
	paras := make([]string, len(topics))
	for i, topic := range topics {
		paras[i] = fmt.Sprintf("Paragraph %d discusses %s in some detail.", i, topic)
	}
	return strings.Join(paras, "\n\n")
}

var testDoc = Document{
	Title:    "Learning to grasp",
	Authors:  "Doe, J.",
	Abstract: "We study robotic grasping.",
	Text:     paragraphText("datasets", "grasp planning", "optimizers", "grasp success", "hardware", "related work"),
}

func testOptions() Options {
	return Options{ChunkChars: 80, TopK: 2}
}

func TestBuilder_Build(t *testing.T) {
	embedder := &fakeEmbedder{fn: topicVectors}
	b := NewBuilder(embedder, testOptions())

	res := b.Build(context.Background(), testDoc)
	if !res.OK() {
		t.Fatalf("Build() skipped: %s", res.Skipped)
	}

	got := res.Context
	if got.ChunkCount != 6 {
		t.Errorf("ChunkCount = %d, want 6", got.ChunkCount)
	}
	if len(got.Excerpts) != 2 || got.Excerpts[0].ChunkIndex != 1 || got.Excerpts[1].ChunkIndex != 3 {
		t.Fatalf("Excerpts = %+v, want chunks 1 and 3", got.Excerpts)
	}
	if !strings.Contains(got.Text, "[Excerpt 1/2, chunk 2]") || !strings.Contains(got.Text, "grasp success") {
		t.Errorf("rendered context = %q", got.Text)
	}
	if strings.Index(got.Text, "grasp planning") > strings.Index(got.Text, "grasp success") {
		t.Errorf("excerpts not in document order: %q", got.Text)
	}
	if !strings.Contains(got.Query, "Learning to grasp") {
		t.Errorf("Query = %q", got.Query)
	}
}

func TestBuilder_Build_TooFewChunks(t *testing.T) {
	embedder := &fakeEmbedder{fn: topicVectors}
	b := NewBuilder(embedder, testOptions())

	for _, text := range []string{"", "one short paragraph"} {
		res := b.Build(context.Background(), Document{Title: "x", Text: text})
		if res.OK() || res.Skipped != SkipTooFewChunks {
			t.Errorf("Build(%q) = %+v, want skip %s", text, res, SkipTooFewChunks)
		}
	}
	if embedder.calls.Load() != 0 {
		t.Errorf("embedder called %d times for tiny documents", embedder.calls.Load())
	}
}

func TestBuilder_Build_Failures(t *testing.T) {
	tests := []struct {
		name     string
		embedder *fakeEmbedder
		want     SkipReason
	}{
		{
			name:     "provider error",
			embedder: &fakeEmbedder{err: errors.New("connection refused")},
			want:     SkipEmbeddingFailed,
		},
		{
			name:     "timeout",
			embedder: &fakeEmbedder{block: true},
			want:     SkipEmbeddingTimeout,
		},
		{
			name:     "wrong vector count",
			embedder: &fakeEmbedder{fn: topicVectors},
			want:     SkipMalformedVectors,
		},
		{
			name:     "no comparable vectors",
			embedder: &fakeEmbedder{fn: func(string) []float32 { return []float32{0, 0} }},
			want:     SkipNoCandidates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var embedder Embedder = tt.embedder
			if tt.want == SkipMalformedVectors {
				embedder = truncatingEmbedder{tt.embedder}
			}
			opts := testOptions()
			opts.MinTimeout = 10 * time.Millisecond
			opts.Timeout = 20 * time.Millisecond
			opts.MaxTimeout = 50 * time.Millisecond
			b := NewBuilder(embedder, opts)

			start := time.Now()
			res := b.Build(context.Background(), testDoc)
			if res.OK() {
				t.Fatalf("Build() = %+v, want skip", res.Context)
			}
			if res.Skipped != tt.want {
				t.Errorf("Build() skipped = %s, want %s", res.Skipped, tt.want)
			}
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("Build() took %s", elapsed)
			}
		})
	}
}

// truncatingEmbedder drops the last vector of every response.
type truncatingEmbedder struct {
	inner Embedder
}

func (e truncatingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out, err := e.inner.EmbedTexts(ctx, texts)
	if err != nil || len(out) == 0 {
		return out, err
	}
	return out[:len(out)-1], nil
}

func TestBuilder_EmbedTimeoutIsDistinct(t *testing.T) {
	b := NewBuilder(&fakeEmbedder{block: true}, Options{
		MinTimeout: 5 * time.Millisecond,
		Timeout:    5 * time.Millisecond,
		MaxTimeout: 5 * time.Millisecond,
	})
	_, err := b.embed(context.Background(), []string{"a"})
	if !errors.Is(err, ErrEmbeddingTimeout) {
		t.Errorf("embed() error = %v, want ErrEmbeddingTimeout", err)
	}

	b = NewBuilder(&fakeEmbedder{err: errors.New("boom")}, Options{})
	_, err = b.embed(context.Background(), []string{"a"})
	if err == nil || errors.Is(err, ErrEmbeddingTimeout) {
		t.Errorf("embed() error = %v, want a non-timeout error", err)
	}
}

func TestBuilder_Batching(t *testing.T) {
	embedder := &fakeEmbedder{fn: topicVectors}
	opts := testOptions()
	opts.BatchSize = 2
	opts.Concurrency = 2
	b := NewBuilder(embedder, opts)

	text := paragraphText("a1", "grasp b2", "c3", "d4", "e5")
	res := b.Build(context.Background(), Document{Title: "T", Text: text})
	if !res.OK() {
		t.Fatalf("Build() skipped: %s", res.Skipped)
	}

	// 5 chunks in batches of 2 plus the query.
	if got := embedder.calls.Load(); got != 4 {
		t.Errorf("embedder calls = %d, want 4", got)
	}
	for _, batch := range embedder.batches {
		if len(batch) > 2 {
			t.Errorf("batch of %d texts exceeds batch size", len(batch))
		}
	}
	if peak := embedder.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestNewBuilder_TimeoutClamp(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{name: "default", timeout: 0, want: DefaultEmbeddingTimeout},
		{name: "below minimum", timeout: time.Second, want: MinEmbeddingTimeout},
		{name: "above maximum", timeout: 2 * time.Minute, want: MaxEmbeddingTimeout},
		{name: "in range", timeout: 25 * time.Second, want: 25 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder(&fakeEmbedder{}, Options{Timeout: tt.timeout})
			if got := b.Timeout(); got != tt.want {
				t.Errorf("Timeout() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "title and authors",
			doc:  Document{Title: "Paper", Authors: "Doe, J."},
			want: `Main findings, methods and conclusions of "Paper" by Doe, J..`,
		},
		{
			name: "title and abstract",
			doc:  Document{Title: "Paper", Abstract: "  We did things. "},
			want: `Main findings, methods and conclusions of "Paper". We did things.`,
		},
		{
			name: "abstract only",
			doc:  Document{Abstract: "We did things."},
			want: "We did things.",
		},
		{
			name: "nothing",
			doc:  Document{Text: "body"},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(tt.doc); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderExcerpts_Cap(t *testing.T) {
	excerpts := []Excerpt{
		{ChunkIndex: 0, Text: strings.Repeat("a", 100)},
		{ChunkIndex: 4, Text: strings.Repeat("b", 100)},
	}

	full := renderExcerpts(excerpts, 10000)
	if !strings.Contains(full, "[Excerpt 2/2, chunk 5]") {
		t.Errorf("uncapped render = %q", full)
	}

	capped := renderExcerpts(excerpts, 200)
	if strings.Contains(capped, "bbb") {
		t.Errorf("capped render kept the second excerpt: %q", capped)
	}
	if !strings.Contains(capped, "aaa") {
		t.Errorf("capped render dropped the first excerpt: %q", capped)
	}

	tiny := renderExcerpts(excerpts, 80)
	if n := len([]rune(tiny)); n > 80 {
		t.Errorf("tiny render has %d runes, want <= 80", n)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"ééééé", 3, "éé…"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
