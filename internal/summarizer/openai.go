package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
)

// ChatSummarizer calls a Chat Completions endpoint. OpenAI, OpenAI-compatible
// gateways and Azure OpenAI deployments differ only in request options.
type ChatSummarizer struct {
	client openai.Client
	model  string
}

// NewOpenAISummarizer builds a summarizer for OpenAI or any compatible base URL.
func NewOpenAISummarizer(apiKey, baseURL, model string, timeout time.Duration) *ChatSummarizer {
	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
	}

	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}

	return &ChatSummarizer{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

// NewAzureSummarizer builds a summarizer for an Azure OpenAI deployment. The
// deployment name takes the place of the model.
func NewAzureSummarizer(apiKey, endpoint, deployment, apiVersion string, timeout time.Duration) *ChatSummarizer {
	return &ChatSummarizer{
		client: openai.NewClient(
			azure.WithEndpoint(strings.TrimRight(strings.TrimSpace(endpoint), "/"), apiVersion),
			azure.WithAPIKey(strings.TrimSpace(apiKey)),
			option.WithMaxRetries(0),
			option.WithHTTPClient(&http.Client{Timeout: timeout}),
		),
		model: deployment,
	}
}

func (s *ChatSummarizer) Summarize(ctx context.Context, input Input) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(input.Prompt),
			openai.UserMessage(userMessage(input)),
		},
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(maxOutputTokens),
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	return checkOutput(resp.Choices[0].Message.Content)
}
