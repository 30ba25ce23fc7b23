package intelligence

import (
	"context"
	"fmt"

	"waly/config"
)

// NewClientFromConfig builds the configured LLM client. It returns a nil
// client when no provider is configured, in which case the assistant answers
// from its local fallback table only.
func NewClientFromConfig(ctx context.Context, cfg config.Config) (LLMClient, error) {
	switch cfg.LLMProvider {
	case "", "none":
		return nil, nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	case "openai":
		if cfg.LLMAPIKey == "" {
			return nil, nil
		}
		return NewChatCompletionClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
