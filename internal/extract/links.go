// Package extract pulls link references out of fetched HTML.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Links holds the raw href values of a page and the base they resolve against
type Links struct {
	// Base is the document's <base href> when present, otherwise the page URL.
	// It may itself be relative to the page URL.
	Base  string
	Hrefs []string
}

// LinkExtractor finds anchor references in HTML documents
type LinkExtractor struct{}

// NewLinkExtractor creates a link extractor
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// IsHTML reports whether a Content-Type header denotes an HTML document.
// An empty content type is treated as HTML, servers often omit it.
func IsHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// Extract returns every href of <a> elements in document order, unresolved
func (e *LinkExtractor) Extract(body []byte, pageURL string) (Links, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Links{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	links := Links{Base: pageURL, Hrefs: []string{}}

	if base, ok := doc.Find("base[href]").First().Attr("href"); ok && strings.TrimSpace(base) != "" {
		links.Base = strings.TrimSpace(base)
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		links.Hrefs = append(links.Hrefs, strings.TrimSpace(href))
	})

	return links, nil
}
