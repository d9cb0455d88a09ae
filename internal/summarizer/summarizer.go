package summarizer

import (
	"context"
	"errors"
	"strings"
)

const (
	maxContentRunes       = 5000
	temperature           = 0.7
	maxOutputTokens int64 = 1000
)

var ErrEmptyOutput = errors.New("model output is empty")

// Input describes the payload for a summary request.
type Input struct {
	// URL is the shared link, passed to the model alongside the content.
	URL string
	// Prompt is the system instruction: the configured summary prompt or a
	// follow-up question.
	Prompt string
	// Content is the extracted page text.
	Content string
}

// Summarizer returns the model's raw text output for the given page.
type Summarizer interface {
	Summarize(ctx context.Context, input Input) (string, error)
}

func userMessage(input Input) string {
	return "链接：" + input.URL + "\n\n内容：" + truncateRunes(input.Content, maxContentRunes)
}

func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}

	return s
}

func checkOutput(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyOutput
	}

	return text, nil
}
