package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"litreview-ai/internal/chunker"
	"litreview-ai/internal/contextutil"
)

// ErrEmbeddingTimeout is returned when an embedding call outlives its timeout.
var ErrEmbeddingTimeout = errors.New("embedding request timed out")

var errMalformedVectors = errors.New("malformed embedding response")

// Embedder computes one vector per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Builder produces a ranked excerpt block for a document. Failures never
// propagate: they are reported as a SkipReason.
type Builder struct {
	embedder Embedder
	chunker  *chunker.Chunker
	opts     Options
}

// NewBuilder creates a context builder using embedder.
func NewBuilder(embedder Embedder, opts Options) *Builder {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MinTimeout <= 0 {
		opts.MinTimeout = MinEmbeddingTimeout
	}
	if opts.MaxTimeout <= 0 {
		opts.MaxTimeout = MaxEmbeddingTimeout
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultEmbeddingTimeout
	}
	opts.Timeout = min(max(opts.Timeout, opts.MinTimeout), opts.MaxTimeout)
	if opts.MaxExcerptChars <= 0 {
		opts.MaxExcerptChars = DefaultMaxExcerptChars
	}
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = DefaultMaxContextChars
	}
	if opts.MaxChunks <= 0 {
		opts.MaxChunks = chunker.DefaultMaxChunks
	}

	return &Builder{
		embedder: embedder,
		chunker:  chunker.New(opts.ChunkChars, opts.MaxChunks),
		opts:     opts,
	}
}

// Timeout returns the effective per-call embedding timeout.
func (b *Builder) Timeout() time.Duration {
	return b.opts.Timeout
}

// Build chunks doc.Text, ranks the chunks against a query derived from the
// document metadata and renders the best ones. Documents yielding fewer than
// two chunks are skipped without calling the embedder.
func (b *Builder) Build(ctx context.Context, doc Document) Result {
	logger := contextutil.LoggerFromContext(ctx)

	chunks := b.chunker.Split(doc.Text)
	if len(chunks) < 2 {
		logger.DebugContext(ctx, "skipping embedding context", "reason", SkipTooFewChunks, "chunks", len(chunks))
		return Result{Skipped: SkipTooFewChunks}
	}

	stats := chunker.Summarize(chunks)
	logger.DebugContext(ctx, "document chunked",
		"chunks", stats.Count,
		"total_runes", stats.TotalRunes,
		"tokens_max", stats.Tokens.Max,
		"tokens_p95", stats.Tokens.P95,
	)

	query := BuildQuery(doc)
	if query == "" {
		query = truncateRunes(chunks[0].Text, b.opts.MaxExcerptChars)
	}

	start := time.Now()
	vectors, err := b.embedChunks(ctx, chunks)
	if err != nil {
		return b.skip(ctx, err)
	}
	queryVectors, err := b.embed(ctx, []string{query})
	if err != nil {
		return b.skip(ctx, err)
	}

	candidates := make([]Candidate, len(chunks))
	for i, ch := range chunks {
		candidates[i] = Candidate{Index: ch.Index, Vector: vectors[i]}
	}
	top := TopK(queryVectors[0], candidates, b.opts.TopK)
	if len(top) == 0 {
		logger.WarnContext(ctx, "no comparable embedding vectors", "chunks", len(chunks))
		return Result{Skipped: SkipNoCandidates}
	}

	excerpts := make([]Excerpt, 0, len(top))
	for _, s := range top {
		excerpts = append(excerpts, Excerpt{
			ChunkIndex: s.Index,
			Similarity: s.Similarity,
			Text:       truncateRunes(chunks[s.Index].Text, b.opts.MaxExcerptChars),
		})
	}

	out := &Context{
		Query:      query,
		ChunkCount: len(chunks),
		Excerpts:   excerpts,
		Text:       renderExcerpts(excerpts, b.opts.MaxContextChars),
	}
	logger.InfoContext(ctx, "embedding context built",
		"chunks", len(chunks),
		"selected", len(excerpts),
		"context_chars", utf8.RuneCountInString(out.Text),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Result{Context: out}
}

// skip logs err and maps it to a SkipReason.
func (b *Builder) skip(ctx context.Context, err error) Result {
	reason := SkipEmbeddingFailed
	switch {
	case errors.Is(err, ErrEmbeddingTimeout):
		reason = SkipEmbeddingTimeout
	case errors.Is(err, errMalformedVectors):
		reason = SkipMalformedVectors
	}
	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "proceeding without embedding context",
		"reason", reason,
		"error", err,
	)
	return Result{Skipped: reason}
}

// embedChunks embeds chunk texts in batches, at most opts.Concurrency at a time.
func (b *Builder) embedChunks(ctx context.Context, chunks []chunker.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)
	for start := 0; start < len(chunks); start += b.opts.BatchSize {
		end := min(start+b.opts.BatchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, ch := range chunks[start:end] {
			texts = append(texts, ch.Text)
		}

		g.Go(func() error {
			batch, err := b.embed(gctx, texts)
			if err != nil {
				return err
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// embed runs one embedding call raced against the configured timeout.
func (b *Builder) embed(ctx context.Context, texts []string) ([][]float32, error) {
	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		vectors [][]float32
		err     error
	}
	done := make(chan result, 1)
	go func() {
		vectors, err := b.embedder.EmbedTexts(callCtx, texts)
		done <- result{vectors: vectors, err: err}
	}()

	timer := time.NewTimer(b.opts.Timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("failed to embed %d texts: %w", len(texts), r.err)
		}
		if len(r.vectors) != len(texts) {
			return nil, fmt.Errorf("%w: expected %d vectors, got %d", errMalformedVectors, len(texts), len(r.vectors))
		}
		return r.vectors, nil
	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrEmbeddingTimeout, b.opts.Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BuildQuery summarizes the document metadata as a retrieval query.
func BuildQuery(doc Document) string {
	title := strings.TrimSpace(doc.Title)
	authors := strings.TrimSpace(doc.Authors)
	abstract := strings.TrimSpace(doc.Abstract)

	var sb strings.Builder
	switch {
	case title != "" && authors != "":
		fmt.Fprintf(&sb, "Main findings, methods and conclusions of %q by %s.", title, authors)
	case title != "":
		fmt.Fprintf(&sb, "Main findings, methods and conclusions of %q.", title)
	case authors != "":
		fmt.Fprintf(&sb, "Main findings of the paper by %s.", authors)
	}
	if abstract != "" {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(truncateRunes(abstract, 800))
	}
	return sb.String()
}

// renderExcerpts renders the enumerated excerpt block, dropping trailing
// excerpts that would push it past maxChars. The first excerpt is always
// kept, truncated if needed.
func renderExcerpts(excerpts []Excerpt, maxChars int) string {
	var sb strings.Builder
	sb.WriteString("Relevant excerpts from the full text (document order):\n")
	used := utf8.RuneCountInString(sb.String())

	for i, ex := range excerpts {
		entry := fmt.Sprintf("\n[Excerpt %d/%d, chunk %d]\n%s\n", i+1, len(excerpts), ex.ChunkIndex+1, ex.Text)
		n := utf8.RuneCountInString(entry)
		if used+n > maxChars {
			if i == 0 {
				sb.WriteString(truncateRunes(entry, maxChars-used))
			}
			break
		}
		sb.WriteString(entry)
		used += n
	}
	return strings.TrimRight(sb.String(), "\n")
}

// truncateRunes shortens s to at most n runes, marking the cut with an ellipsis.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
