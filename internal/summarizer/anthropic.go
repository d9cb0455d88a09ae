package summarizer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicSummarizer struct {
	client anthropic.Client
	model  string
}

func NewAnthropicSummarizer(apiKey, baseURL, model string, timeout time.Duration) *AnthropicSummarizer {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}

	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
	}

	return &AnthropicSummarizer{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (s *AnthropicSummarizer) Summarize(ctx context.Context, input Input) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(s.model),
		MaxTokens:   maxOutputTokens,
		Temperature: anthropic.Float(temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage(input))),
		},
	}

	if strings.TrimSpace(input.Prompt) != "" {
		params.System = []anthropic.TextBlockParam{{Text: input.Prompt}}
	}

	msg, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}

	return checkOutput(b.String())
}
