// internal/llm/factory.go
package llm

import (
	"context"
	"fmt"
	"net/http"

	"restaurant-ai-service/internal/common/config"
)

// New builds the provider client named by a model selection. The shared
// outbound HTTP client is handed to whichever SDK is chosen.
func New(ctx context.Context, cfg config.LLMConfig, selection config.ModelSelection, httpClient *http.Client) (Client, error) {
	switch selection.Provider {
	case "gemini":
		return NewGeminiClient(ctx, cfg.Gemini.APIKey, selection.Model, httpClient)
	case "openai":
		return NewOpenAIClient(OpenAIOptions{
			APIKey:     cfg.OpenAI.APIKey,
			BaseURL:    cfg.OpenAI.BaseURL,
			Model:      selection.Model,
			HTTPClient: httpClient,
		}), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", selection.Provider)
	}
}
