package page

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"readbrief/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// JinaFetcher delegates extraction to the Jina Reader service, asking it for
// rendered HTML so that title and site name survive.
type JinaFetcher struct {
	client  *http.Client
	baseURL string
	apiKey  string
	log     *slog.Logger
}

func NewJinaFetcher(baseURL, apiKey string, timeout time.Duration, log *slog.Logger) *JinaFetcher {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &JinaFetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		log:     log,
	}
}

func (f *JinaFetcher) Fetch(ctx context.Context, rawURL string) (*domain.Page, error) {
	pageURL, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("X-Return-Format", "html")
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL,
				"operation", "jinaFetch")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("create document from reader: %w", err)
	}

	meta := metadataFromDocument(doc)

	content := documentText(doc)
	if content == "" {
		return nil, ErrEmptyContent
	}

	return &domain.Page{
		URL:     rawURL,
		Content: content,
		Title:   meta.Title,
		Source:  meta.Source,
	}, nil
}

func documentText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, template").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	var b strings.Builder
	for _, line := range strings.Split(body.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
	}

	return b.String()
}
