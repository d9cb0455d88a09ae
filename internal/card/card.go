// Package card renders summaries into shareable images through an external
// card rendering API.
package card

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxImageBytes     = 20 << 20
	maxErrorBodyBytes = 1024

	unknownSource = "未知来源"
	qrCodeTitle   = "阅读简报"
	qrCodeText    = "长按识别二维码 · 阅读原文"
	iconURL       = "https://thirdwx.qlogo.cn/mmopen/vi_32/PiajxSqBRaELBfzmtibIGDLIMh25xMibQib7bOzufM1CYPRz0yMxpe7eVDf6iarE0jWXsmicswRPyldE5ibCcBQTLhgBHeF1oWLJU5WklyBpvsDdubahZmeMknmDQ/132"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrNotImage         = errors.New("response is not an image")
)

// Request is the content of one card.
type Request struct {
	Title       string
	ContentHTML string // already escaped markup
	URL         string
	Source      string
}

type Renderer struct {
	client        *http.Client
	apiURL        string
	qrFallbackURL string
	log           *slog.Logger
}

func New(
	apiURL string,
	qrFallbackURL string,
	timeout time.Duration,
	insecureSkipVerify bool,
	log *slog.Logger,
) *Renderer {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // Always *http.Transport.
	if insecureSkipVerify {
		log.Warn("TLS certificate verification is disabled for the card API",
			"apiURL", apiURL)

		//nolint:gosec // Opt-in for self-hosted renderers only.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Renderer{
		client:        &http.Client{Timeout: timeout, Transport: transport},
		apiURL:        strings.TrimSpace(apiURL),
		qrFallbackURL: qrFallbackURL,
		log:           log,
	}
}

// Render posts the card to the rendering API and returns the image bytes.
func (r *Renderer) Render(ctx context.Context, req Request) ([]byte, error) {
	body, err := json.Marshal(r.payload(req))
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			r.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"operation", "renderCard")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		r.log.WarnContext(ctx, "Card API returned unexpected status",
			"status", resp.StatusCode,
			"body", strings.TrimSpace(string(snippet)))

		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	image, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	if len(image) == 0 {
		return nil, errors.New("read image: empty body")
	}

	// Some renderers report failures as a 200 with a JSON body.
	if contentType := http.DetectContentType(image); !strings.HasPrefix(contentType, "image/") {
		r.log.WarnContext(ctx, "Card API returned a non-image body",
			"contentType", contentType,
			"body", strings.TrimSpace(string(image[:min(len(image), maxErrorBodyBytes)])))

		return nil, fmt.Errorf("%w: %s", ErrNotImage, contentType)
	}

	return image, nil
}

func (r *Renderer) payload(req Request) payload {
	author := "<p>" + unknownSource + "</p>"
	if source := strings.TrimSpace(req.Source); source != "" {
		author = "<p>" + html.EscapeString(source) + "</p>"
	}

	qrCode := req.URL
	if qrCode == "" {
		qrCode = r.qrFallbackURL
	}

	return payload{
		Form: form{
			Icon:         iconURL,
			Title:        "<p>" + html.EscapeString(req.Title) + "</p>",
			Content:      "<p>" + req.ContentHTML + "</p>",
			Author:       author,
			TextCount:    "字数",
			QRCodeTitle:  qrCodeTitle,
			QRCodeText:   qrCodeText,
			Pagination:   "01",
			QRCode:       qrCode,
			TextCountNum: utf8.RuneCountInString(req.ContentHTML),
		},
		Style: style{
			Align:           "left",
			BackgroundName:  "light-color-41",
			Font:            "LXGW WenKai Light",
			Width:           540,
			FontScale:       0.8,
			Padding:         "10px",
			BorderRadius:    "20px",
			BackgroundAngle: "150deg",
		},
		SwitchConfig: switchConfig{
			ShowTitle:    true,
			ShowContent:  true,
			ShowAuthor:   true,
			ShowQRCode:   true,
			ShowTGradual: true,
		},
		Temp:     "tempEasy",
		ImgScale: 3,
		Language: "zh",
	}
}
