package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type Metadata struct {
	Title  string
	Source string
}

// ParseMetadata reads the <title> text and the og:site_name meta tag.
func ParseMetadata(r io.Reader) (Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Metadata{}, fmt.Errorf("create document from reader: %w", err)
	}

	return metadataFromDocument(doc), nil
}

func metadataFromDocument(doc *goquery.Document) Metadata {
	var meta Metadata

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if content, ok := doc.Find("meta[property='og:site_name']").Attr("content"); ok {
		meta.Source = strings.TrimSpace(content)
	}

	return meta
}
