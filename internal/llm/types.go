package llm

import "context"

// Provider names accepted by the factory.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output.
	// Zero leaves the server default in place.
	Temperature float32

	// JSONMode asks the server to constrain the reply to a JSON object.
	JSONMode bool
}

// ChatClient is a chat completion backend.
type ChatClient interface {
	ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error)
	ProviderName() string
	ModelName() string
}

// Embedder turns texts into vectors, one per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
