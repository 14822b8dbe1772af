package services

import (
	"context"
	"fmt"

	"github.com/Bharath8080/interview-assessment-ai/internal/config"
)

// ModelProvider abstracts the generative-model backend used for assessment.
type ModelProvider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewModelProvider constructs the provider selected in config.
// Called once at server startup.
func NewModelProvider(ctx context.Context, cfg config.ModelConfig) (ModelProvider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q: must be gemini or openai", cfg.Provider)
	}
}
