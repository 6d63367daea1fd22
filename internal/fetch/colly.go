// Package fetch retrieves pages over HTTP for the crawler.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// Page is the fetched content of a single URL.
// FinalURL differs from URL when the server redirected.
type Page struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
}

// Options configures a CollyFetcher
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int
}

// CollyFetcher fetches pages with a colly collector.
// Each Fetch runs on its own clone of the base collector so callbacks never
// leak between concurrent fetches, while the HTTP backend is shared.
type CollyFetcher struct {
	base *colly.Collector
}

// NewCollyFetcher creates a fetcher. Deduplication is the crawler's job, so
// colly is allowed to revisit URLs.
func NewCollyFetcher(opts Options) *CollyFetcher {
	collectorOpts := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.MaxDepth(0), // Depth is bounded by the frontier scheduler
	}
	if opts.UserAgent != "" {
		collectorOpts = append(collectorOpts, colly.UserAgent(opts.UserAgent))
	}
	if opts.MaxBodySize > 0 {
		collectorOpts = append(collectorOpts, colly.MaxBodySize(opts.MaxBodySize))
	}

	c := colly.NewCollector(collectorOpts...)
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	return &CollyFetcher{base: c}
}

// Fetch retrieves pageURL synchronously. Transport failures, timeouts and
// non-2xx statuses are all reported as errors.
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := f.base.Clone()

	var page *Page
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		page = &Page{
			URL:         pageURL,
			FinalURL:    r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        r.Body,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("status %d: %w", r.StatusCode, err)
			return
		}
		fetchErr = err
	})

	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = err
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if page == nil {
		return nil, errors.New("no response received")
	}

	return page, nil
}
