package main

import (
	"fmt"
	"os"

	"litreview-ai/internal/config"
	"litreview-ai/internal/llm"
	"litreview-ai/internal/rag"
	"litreview-ai/internal/service"
)

// newReviewService builds the service from configuration. Retrieval is only
// wired when embeddings are enabled.
func (a *app) newReviewService() (*service.ReviewService, error) {
	cfg := a.cfg

	chat, err := llm.NewChatClient(llm.Settings{
		Provider: cfg.LLMProvider,
		BaseURL:  cfg.LLMBaseURL,
		Model:    cfg.LLMModel,
		APIKey:   cfg.LLMAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var builder service.ContextBuilder
	if cfg.EmbeddingsEnabled {
		embedder, err := llm.NewEmbedder(llm.Settings{
			Provider: cfg.EmbeddingProvider,
			BaseURL:  cfg.EmbeddingBaseURL,
			Model:    cfg.EmbeddingModel,
			APIKey:   cfg.EmbeddingAPIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		builder = rag.NewBuilder(embedder, ragOptions(cfg))
	}

	opts := service.Options{
		MaxSourceChars: cfg.MaxSourceChars,
		DailyCallLimit: cfg.DailyCallLimit,
	}
	if opts.ExtractionTemplate, err = readTemplate(cfg.ExtractionTemplatePath); err != nil {
		return nil, err
	}
	if opts.SummaryTemplate, err = readTemplate(cfg.SummaryTemplatePath); err != nil {
		return nil, err
	}
	return service.NewReviewService(a.store, chat, builder, opts), nil
}

func ragOptions(cfg *config.Config) rag.Options {
	return rag.Options{
		ChunkChars: cfg.ChunkChars,
		MaxChunks:  cfg.MaxChunks,
		TopK:       cfg.TopK,
		BatchSize:  cfg.EmbeddingBatchSize,
		Timeout:    cfg.EmbeddingTimeout,
	}
}

// readTemplate returns the template at path, or "" for the built-in one.
func readTemplate(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}
	return string(data), nil
}
