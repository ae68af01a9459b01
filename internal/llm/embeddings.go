package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
)

// EmbeddingsClient calls the /v1/embeddings endpoint of a llama.cpp (or
// other OpenAI-compatible) server.
type EmbeddingsClient struct {
	BaseURL string
	APIKey  string
	Model   string
	// ExpectedSize is the required vector length; 0 accepts any length as
	// long as all vectors of one response agree.
	ExpectedSize int
	client       *http.Client
}

// NewEmbeddingsClient creates a new embeddings client.
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		BaseURL:      baseURL,
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       http.DefaultClient,
	}
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingEntry is one vector of a response. Index refers to the position
// of its input text; servers may return entries in any order.
type embeddingEntry struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

type embeddingsResponse struct {
	Data []embeddingEntry `json:"data"`
}

// EmbedTexts returns one vector per text, in input order.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	resp, err := c.post(ctx, embeddingsRequest{Model: c.Model, Input: texts})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	size := c.ExpectedSize
	for _, entry := range resp.Data {
		if entry.Index < 0 || entry.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range [0, %d)", entry.Index, len(texts))
		}
		if vectors[entry.Index] != nil {
			return nil, fmt.Errorf("embedding index %d returned twice", entry.Index)
		}
		if size == 0 {
			size = len(entry.Embedding)
		}
		if len(entry.Embedding) != size {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", entry.Index, len(entry.Embedding), size)
		}
		vec, err := toFloat32(entry.Embedding)
		if err != nil {
			return nil, fmt.Errorf("embedding %d: %w", entry.Index, err)
		}
		vectors[entry.Index] = vec
	}
	return vectors, nil
}

func (c *EmbeddingsClient) post(ctx context.Context, payload embeddingsRequest) (embeddingsResponse, error) {
	var out embeddingsResponse

	body, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return out, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return out, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}

// toFloat32 narrows v, rejecting values that are not finite as float32.
func toFloat32(v []float64) ([]float32, error) {
	out := make([]float32, len(v))
	for i, x := range v {
		f := float32(x)
		if math.IsNaN(x) || math.IsInf(float64(f), 0) {
			return nil, fmt.Errorf("non-finite value at %d", i)
		}
		out[i] = f
	}
	return out, nil
}
