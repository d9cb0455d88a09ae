package summarizer

import (
	"log/slog"

	"readbrief/internal/config"
)

// New picks the implementation for the configured provider.
func New(provider string, cfg config.LLMConfig, log *slog.Logger) Summarizer {
	switch provider {
	case config.ProviderGemini:
		return NewGeminiSummarizer(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Timeout, log)
	case config.ProviderAzure:
		return NewAzureSummarizer(
			cfg.Azure.APIKey,
			cfg.Azure.Endpoint,
			cfg.Azure.Deployment,
			cfg.Azure.APIVersion,
			cfg.Timeout,
		)
	case config.ProviderAnthropic:
		return NewAnthropicSummarizer(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, cfg.Anthropic.Model, cfg.Timeout)
	default:
		return NewOpenAISummarizer(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, cfg.Timeout)
	}
}
