package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"readbrief/internal/domain"

	"github.com/go-shiori/go-readability"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	maxBodyBytes = 8 << 20
)

var ErrEmptyContent = errors.New("page content is empty")

// Fetcher turns a shared URL into page text plus coarse metadata.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.Page, error)
}

// ReadabilityFetcher downloads the page itself and extracts the article text
// locally.
type ReadabilityFetcher struct {
	client *http.Client
	log    *slog.Logger
}

func NewReadabilityFetcher(timeout time.Duration, log *slog.Logger) *ReadabilityFetcher {
	return &ReadabilityFetcher{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

func (f *ReadabilityFetcher) Fetch(ctx context.Context, rawURL string) (*domain.Page, error) {
	pageURL, err := parseURL(rawURL)
	if err != nil {
		return nil, err
	}

	body, err := f.download(ctx, pageURL.String())
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse article: %w", err)
	}

	content := strings.TrimSpace(article.TextContent)
	if content == "" {
		return nil, ErrEmptyContent
	}

	meta, err := ParseMetadata(bytes.NewReader(body))
	if err != nil {
		f.log.WarnContext(ctx, "Failed to parse page metadata",
			"error", err,
			"url", rawURL)
	}

	if meta.Title == "" {
		meta.Title = strings.TrimSpace(article.Title)
	}

	if meta.Source == "" {
		meta.Source = strings.TrimSpace(article.SiteName)
	}

	return &domain.Page{
		URL:     rawURL,
		Content: content,
		Title:   meta.Title,
		Source:  meta.Source,
	}, nil
}

func (f *ReadabilityFetcher) download(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req) //nolint:gosec // User shared URL is the whole point.
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", pageURL,
				"operation", "download")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

func parseURL(rawURL string) (*url.URL, error) {
	rawURL = strings.TrimSpace(rawURL)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("unsupported URL: %q", rawURL)
	}

	return u, nil
}
