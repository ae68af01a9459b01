package rag

import "time"

const (
	// DefaultTopK is how many excerpts are injected into a prompt.
	DefaultTopK = 4
	// DefaultBatchSize is how many chunks are sent in one embedding request.
	DefaultBatchSize = 16
	// DefaultConcurrency bounds parallel embedding requests per document.
	DefaultConcurrency = 2

	// MinEmbeddingTimeout and MaxEmbeddingTimeout bound the per-call timeout.
	MinEmbeddingTimeout = 20 * time.Second
	MaxEmbeddingTimeout = 45 * time.Second
	// DefaultEmbeddingTimeout applies when no timeout is configured.
	DefaultEmbeddingTimeout = 30 * time.Second

	// DefaultMaxExcerptChars caps a single excerpt in runes.
	DefaultMaxExcerptChars = 1500
	// DefaultMaxContextChars caps the whole rendered excerpt block in runes.
	DefaultMaxContextChars = 6000
)

// Options configures a Builder. Zero values select the defaults above.
type Options struct {
	// ChunkChars is the chunk budget in runes.
	ChunkChars int
	// MaxChunks caps how many chunks are embedded per document.
	MaxChunks int
	// TopK is how many excerpts are selected.
	TopK int
	// BatchSize is how many chunks go into one embedding request.
	BatchSize int
	// Concurrency bounds parallel embedding requests.
	Concurrency int

	// Timeout is the per-call embedding timeout, clamped to
	// [MinTimeout, MaxTimeout].
	Timeout    time.Duration
	MinTimeout time.Duration
	MaxTimeout time.Duration

	// MaxExcerptChars caps each excerpt; MaxContextChars caps the block.
	MaxExcerptChars int
	MaxContextChars int
}

// Document is the item being enriched.
type Document struct {
	Title    string
	Authors  string
	Abstract string
	// Text is the normalized full text to chunk and rank.
	Text string
}

// Excerpt is one selected chunk.
type Excerpt struct {
	// ChunkIndex is the chunk's position in the document.
	ChunkIndex int `json:"chunk_index"`
	// Similarity is the cosine similarity to the query.
	Similarity float64 `json:"similarity"`
	// Text is the chunk text, possibly truncated.
	Text string `json:"text"`
}

// Context is the enrichment produced for one document.
type Context struct {
	// Text is the rendered excerpt block ready for a prompt.
	Text string `json:"text"`
	// Query is the text the chunks were ranked against.
	Query string `json:"query"`
	// ChunkCount is how many chunks were embedded.
	ChunkCount int `json:"chunk_count"`
	// Excerpts are the selected chunks in document order.
	Excerpts []Excerpt `json:"excerpts"`
}

// SkipReason says why no context was produced.
type SkipReason string

const (
	SkipTooFewChunks     SkipReason = "too_few_chunks"
	SkipEmbeddingFailed  SkipReason = "embedding_failed"
	SkipEmbeddingTimeout SkipReason = "embedding_timeout"
	SkipMalformedVectors SkipReason = "malformed_vectors"
	SkipNoCandidates     SkipReason = "no_candidates"

	// Reported by callers that never invoke a Builder.
	SkipDisabled   SkipReason = "disabled"
	SkipNoFullText SkipReason = "no_full_text"
)

// Result is either a Context or the reason there is none.
type Result struct {
	Context *Context
	Skipped SkipReason
}

// OK reports whether r carries a context.
func (r Result) OK() bool {
	return r.Context != nil
}
