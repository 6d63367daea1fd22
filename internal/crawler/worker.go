package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/alvmarrod/site-weaver/internal/extract"
	"github.com/alvmarrod/site-weaver/internal/fetch"
	"github.com/alvmarrod/site-weaver/internal/metrics"
	"github.com/alvmarrod/site-weaver/internal/storage"
	"github.com/sirupsen/logrus"
)

// Fetcher retrieves the content of a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// Extractor finds the raw link references of an HTML page
type Extractor interface {
	Extract(body []byte, pageURL string) (extract.Links, error)
}

// FetchError records a failed fetch. It is never fatal except for the seed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Worker fetches one URL and turns its links into a CrawlResult
type Worker struct {
	fetcher    Fetcher
	extractor  Extractor
	normalizer *Normalizer
	filter     *PatternFilter
	tracker    *metrics.Tracker
}

// NewWorker wires a worker to its collaborators
func NewWorker(fetcher Fetcher, extractor Extractor, normalizer *Normalizer, filter *PatternFilter, tracker *metrics.Tracker) *Worker {
	return &Worker{
		fetcher:    fetcher,
		extractor:  extractor,
		normalizer: normalizer,
		filter:     filter,
		tracker:    tracker,
	}
}

// Process fetches url and returns its normalized, filtered, deduplicated links.
// Fetch failures come back as a result with Crawled=false and a *FetchError.
func (w *Worker) Process(ctx context.Context, url string, depth int) storage.CrawlResult {
	result := storage.CrawlResult{
		URL:   url,
		Depth: depth,
		Links: []string{},
	}

	start := time.Now()
	page, err := w.fetcher.Fetch(ctx, url)
	w.tracker.RecordFetchTime(time.Since(start))
	if err != nil {
		w.tracker.IncrementPagesFailed()
		logrus.Warnf("Failed to fetch %s (depth=%d): %v", url, depth, err)
		result.Err = &FetchError{URL: url, Err: err}
		return result
	}

	w.tracker.IncrementPagesFetched()
	w.tracker.IncrementNodesCrawled()
	result.Crawled = true
	logrus.Infof("Fetched %s (depth=%d, status=%d)", url, depth, page.StatusCode)

	if !extract.IsHTML(page.ContentType) {
		logrus.Debugf("Skipping link extraction for %s: content type %q", url, page.ContentType)
		return result
	}

	pageURL := page.FinalURL
	if pageURL == "" {
		pageURL = url
	}

	links, err := w.extractor.Extract(page.Body, pageURL)
	if err != nil {
		logrus.Warnf("Failed to extract links from %s: %v", url, err)
		return result
	}

	base, err := w.normalizer.Normalize(links.Base, pageURL)
	if err != nil {
		base = pageURL
	}

	seen := make(map[string]struct{}, len(links.Hrefs))
	for _, href := range links.Hrefs {
		link, err := w.normalizer.Normalize(href, base)
		if err != nil {
			logrus.Debugf("Dropping link %q on %s: %v", href, url, err)
			continue
		}
		if !w.filter.Accept(link) {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		result.Links = append(result.Links, link)
	}

	return result
}
