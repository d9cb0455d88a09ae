package card_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"readbrief/internal/card"
	"testing"
	"time"
)

const pngImage = "\x89PNG\r\n\x1a\nDATA"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRender(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request: %s %s", r.Method, r.Header.Get("Content-Type"))
		}

		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}

		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte(pngImage))
	}))
	defer server.Close()

	r := card.New(server.URL, "https://fallback.example", 5*time.Second, false, discardLogger())

	image, err := r.Render(context.Background(), card.Request{
		Title:       "标题",
		ContentHTML: "<b>内容</b>",
		URL:         "https://example.com/a",
		Source:      "Example",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(image) != pngImage {
		t.Fatalf("unexpected image: %q", image)
	}

	form, _ := payload["form"].(map[string]any)

	tests := []struct {
		field string
		want  any
	}{
		{"title", "<p>标题</p>"},
		{"content", "<p><b>内容</b></p>"},
		{"author", "<p>Example</p>"},
		{"qrCode", "https://example.com/a"},
		{"qrCodeTitle", "阅读简报"},
		{"textCountNum", float64(9)},
	}

	for _, test := range tests {
		if form[test.field] != test.want {
			t.Errorf("form.%s: expected %v, got %v", test.field, test.want, form[test.field])
		}
	}

	if payload["temp"] != "tempEasy" || payload["imgScale"] != float64(3) || payload["language"] != "zh" {
		t.Fatalf("unexpected top-level fields: %v", payload)
	}

	switches, _ := payload["switchConfig"].(map[string]any)
	if switches["showQRCode"] != true || switches["showIcon"] != false {
		t.Fatalf("unexpected switch config: %v", switches)
	}
}

func TestRenderDefaults(t *testing.T) {
	var payload struct {
		Form struct {
			Author string `json:"author"`
			QRCode string `json:"qrCode"`
		} `json:"form"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = w.Write([]byte(pngImage))
	}))
	defer server.Close()

	r := card.New(server.URL, "https://fallback.example", 5*time.Second, false, discardLogger())

	if _, err := r.Render(context.Background(), card.Request{Title: "t", ContentHTML: "c"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.Form.Author != "<p>未知来源</p>" {
		t.Fatalf("unexpected author: %q", payload.Form.Author)
	}

	if payload.Form.QRCode != "https://fallback.example" {
		t.Fatalf("unexpected QR code: %q", payload.Form.QRCode)
	}
}

func TestRenderEscapesTitleAndSource(t *testing.T) {
	var payload struct {
		Form struct {
			Title   string `json:"title"`
			Author  string `json:"author"`
			Content string `json:"content"`
		} `json:"form"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&payload)
		_, _ = w.Write([]byte(pngImage))
	}))
	defer server.Close()

	r := card.New(server.URL, "", 5*time.Second, false, discardLogger())

	_, err := r.Render(context.Background(), card.Request{
		Title:       `Go <1.22> & "friends"`,
		ContentHTML: "<b>Vec&lt;String&gt;</b>",
		Source:      "A&B <c>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.Form.Title != "<p>Go &lt;1.22&gt; &amp; &#34;friends&#34;</p>" {
		t.Errorf("unexpected title: %q", payload.Form.Title)
	}

	if payload.Form.Author != "<p>A&amp;B &lt;c&gt;</p>" {
		t.Errorf("unexpected author: %q", payload.Form.Author)
	}

	if payload.Form.Content != "<p><b>Vec&lt;String&gt;</b></p>" {
		t.Errorf("expected content markup to pass through, got %q", payload.Form.Content)
	}
}

func TestRenderRejectsNonImageBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"template not found"}`))
	}))
	defer server.Close()

	r := card.New(server.URL, "", 5*time.Second, false, discardLogger())

	_, err := r.Render(context.Background(), card.Request{Title: "t", ContentHTML: "c"})
	if !errors.Is(err, card.ErrNotImage) {
		t.Fatalf("expected ErrNotImage, got %v", err)
	}
}

func TestRenderUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	r := card.New(server.URL, "", 5*time.Second, false, discardLogger())

	_, err := r.Render(context.Background(), card.Request{Title: "t", ContentHTML: "c"})
	if !errors.Is(err, card.ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
}

func TestRenderInsecureSkipVerify(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(pngImage))
	}))
	defer server.Close()

	strict := card.New(server.URL, "", 5*time.Second, false, discardLogger())
	if _, err := strict.Render(context.Background(), card.Request{}); err == nil {
		t.Fatalf("expected certificate error with verification enabled")
	}

	insecure := card.New(server.URL, "", 5*time.Second, true, discardLogger())
	if _, err := insecure.Render(context.Background(), card.Request{}); err != nil {
		t.Fatalf("unexpected error with verification disabled: %v", err)
	}
}
