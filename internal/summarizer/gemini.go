package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBodyBytes = 1024

// GeminiSummarizer calls the generateContent REST endpoint directly.
type GeminiSummarizer struct {
	client  *http.Client
	apiKey  string
	baseURL string
	model   string
	log     *slog.Logger
}

func NewGeminiSummarizer(apiKey, baseURL, model string, timeout time.Duration, log *slog.Logger) *GeminiSummarizer {
	return &GeminiSummarizer{
		client:  &http.Client{Timeout: timeout},
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		model:   model,
		log:     log,
	}
}

func (s *GeminiSummarizer) Summarize(ctx context.Context, input Input) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: input.Prompt},
				{Text: userMessage(input)},
			},
		}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.baseURL, url.PathEscape(s.model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			s.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"operation", "geminiSummarize")
		}
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		return "", fmt.Errorf("do request: unexpected status: %d: %s",
			resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded geminiResponse
	if err = json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(decoded.Candidates) == 0 {
		return "", errors.New("response has no candidates")
	}

	parts := decoded.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", errors.New("candidate has no parts")
	}

	return checkOutput(parts[0].Text)
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int64   `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}
