package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks litreview-ai/internal/service LLMClient
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_context_builder.go -package=mocks litreview-ai/internal/service ContextBuilder

import (
	"context"

	"litreview-ai/internal/llm"
	"litreview-ai/internal/rag"
)

// LLMClient is an interface for interacting with an LLM API.
// This interface is defined from the service layer's perspective (consumer-first).
type LLMClient interface {
	// ChatWithMessages sends a conversation and returns the reply.
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
	// ProviderName identifies the backend for record provenance.
	ProviderName() string
	// ModelName is the default model used for requests.
	ModelName() string
}

// ContextBuilder produces retrieval excerpts for a document.
type ContextBuilder interface {
	Build(ctx context.Context, doc rag.Document) rag.Result
}

// Event names counted against the daily AI call limit.
const (
	EventExtract       = "ai_extract"
	EventFolderSummary = "ai_folder_summary"
)

// AICallEvents are the event kinds that consume the daily limit.
var AICallEvents = []string{EventExtract, EventFolderSummary}

const (
	// DefaultMaxSourceChars caps the source text of one prompt in runes.
	DefaultMaxSourceChars = 24000
	// DefaultMaxFullTextChars caps the full text included without retrieval.
	DefaultMaxFullTextChars = 12000
)

// Options configures a ReviewService. Zero values select defaults.
type Options struct {
	ExtractionTemplate string
	SummaryTemplate    string
	MaxSourceChars     int
	MaxFullTextChars   int
	// DailyCallLimit caps AI calls per calendar day; 0 disables the limit.
	DailyCallLimit int
}
