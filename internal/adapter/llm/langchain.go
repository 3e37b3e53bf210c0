// Package llm builds langchaingo models for the configured provider and adapts them to domain.TextGenerator.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel creates the langchaingo client for cfg.Provider.
func NewModel(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "googleai":
		m, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return m, nil
	case "openai":
		m, err := openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
		}
		return m, nil
	case "anthropic":
		m, err := anthropic.New(
			anthropic.WithToken(cfg.APIKey),
			anthropic.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic client: %w", err)
		}
		return m, nil
	case "ollama":
		m, err := ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Ollama client: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// TextGenerator adapts an llms.Model to domain.TextGenerator.
type TextGenerator struct {
	model   llms.Model
	options []llms.CallOption
}

var _ domain.TextGenerator = (*TextGenerator)(nil)

// NewTextGenerator wraps model with the call options derived from cfg.
func NewTextGenerator(model llms.Model, cfg config.LLMConfig) *TextGenerator {
	options := []llms.CallOption{llms.WithTemperature(cfg.Temperature)}
	if cfg.JSONMode {
		options = append(options, llms.WithJSONMode())
	}
	return &TextGenerator{model: model, options: options}
}

// Generate sends prompt as a single human message and returns the first choice.
func (g *TextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, g.model, prompt, g.options...)
}
