package agents

import (
	"context"
	"fmt"
	"time"

	openaiembed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"

	"tradecouncil/internal/config"
)

// NewChatModel builds the reasoning model for the configured provider.
func NewChatModel(ctx context.Context, cfg *config.Config) (model.BaseChatModel, error) {
	switch cfg.LLMProvider {
	case "deepseek":
		return deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:    cfg.LLMAPIKey,
			Model:     cfg.LLMModel,
			MaxTokens: 8192,
		})
	case "openai":
		maxTokens := 8192
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   cfg.BackendURL,
			APIKey:    cfg.LLMAPIKey,
			Model:     cfg.LLMModel,
			MaxTokens: &maxTokens,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// NewEmbedder builds the embedding provider used by the knowledge retriever.
func NewEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	return openaiembed.NewEmbedder(ctx, &openaiembed.EmbeddingConfig{
		APIKey:  cfg.EmbedAPIKey,
		Model:   cfg.EmbedModel,
		BaseURL: cfg.EmbedBaseURL,
		Timeout: 30 * time.Second,
	})
}
