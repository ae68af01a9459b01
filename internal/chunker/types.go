package chunker

// Chunk is one bounded slice of source text.
type Chunk struct {
	Index int    // Position in the sequence (starts at 0)
	Text  string // Chunk text, at most the configured budget in runes
}
