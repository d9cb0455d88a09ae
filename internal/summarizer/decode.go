package summarizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"readbrief/internal/domain"
)

var ErrNotStructured = errors.New("model output is not a JSON object")

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json|JSON)?\\s*(.+?)\\s*```$")

type wireSummary struct {
	Title     flexText        `json:"title"`
	Summary   flexText        `json:"summary"`
	KeyPoints json.RawMessage `json:"key_points"`
	Comment   flexText        `json:"comment"`
	Tags      flexText        `json:"tags"`
	ReadTime  flexText        `json:"read_time"`
	Source    flexText        `json:"source"`
}

// Decode parses the model output as a structured summary. Output that is not
// a single JSON object yields ErrNotStructured and should be shown verbatim.
func Decode(raw string) (domain.Summary, error) {
	text := strings.TrimSpace(raw)
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	if !strings.HasPrefix(text, "{") {
		return domain.Summary{}, ErrNotStructured
	}

	var w wireSummary
	if err := json.Unmarshal([]byte(text), &w); err != nil {
		return domain.Summary{}, fmt.Errorf("%w: %w", ErrNotStructured, err)
	}

	return domain.Summary{
		Title:     string(w.Title),
		Summary:   string(w.Summary),
		KeyPoints: stringItems(w.KeyPoints),
		Comment:   string(w.Comment),
		Tags:      string(w.Tags),
		ReadTime:  string(w.ReadTime),
		Source:    string(w.Source),
	}, nil
}

// stringItems keeps the non-empty string elements of a JSON array and ignores
// anything else.
func stringItems(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}

	var out []string
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}

		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	return out
}

// flexText accepts a string, a number, a boolean or an array of strings.
type flexText string

func (f *flexText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexText(strings.TrimSpace(s))
	case data[0] == '[':
		*f = flexText(strings.Join(stringItems(data), " "))
	case data[0] == '{':
		return errors.New("object is not a text value")
	default:
		*f = flexText(data)
	}

	return nil
}
