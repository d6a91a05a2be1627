package types

import (
	"bytes"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is the fetched, parseable content of one crawl task.
type Page struct {
	// Task is the task this page was fetched for.
	Task *CrawlTask

	// StatusCode is the HTTP status of the fetch.
	StatusCode int

	// Body is the raw HTML bytes.
	Body []byte

	// FinalURL is the URL after redirects; link resolution uses it
	// as the base, not the task URL.
	FinalURL string

	// FetchedAt is when the response was received.
	FetchedAt time.Time

	// FetchDuration is how long the fetch took.
	FetchDuration time.Duration

	doc *goquery.Document
}

// NewPage builds a Page for a task from raw response bytes.
func NewPage(task *CrawlTask, statusCode int, body []byte, finalURL string, duration time.Duration) *Page {
	if finalURL == "" {
		finalURL = task.URLString()
	}
	return &Page{
		Task:          task,
		StatusCode:    statusCode,
		Body:          body,
		FinalURL:      finalURL,
		FetchedAt:     time.Now(),
		FetchDuration: duration,
	}
}

// Document returns the parsed goquery document, lazily initializing it.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}

// BaseURL returns the parsed final URL for resolving relative links.
func (p *Page) BaseURL() *url.URL {
	u, err := url.Parse(p.FinalURL)
	if err != nil {
		return p.Task.URL
	}
	return u
}

// IsSuccess reports whether the status code is 2xx.
func (p *Page) IsSuccess() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}
