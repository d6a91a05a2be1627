package types

import (
	"fmt"
	"net/url"
	"time"
)

// PageLabel declares what kind of page a crawl task points at.
// The dispatcher is the single decision point that interprets it.
type PageLabel int

const (
	LabelUnknown PageLabel = iota
	LabelStart
	LabelCategory
	LabelDetail
)

func (l PageLabel) String() string {
	switch l {
	case LabelStart:
		return "START"
	case LabelCategory:
		return "CATEGORY"
	case LabelDetail:
		return "PRODUCT_DETAIL"
	default:
		return "UNKNOWN"
	}
}

// CrawlTask is one discovered URL waiting in the frontier.
// Tasks are immutable once enqueued and consumed exactly once.
type CrawlTask struct {
	// URL is the absolute target URL.
	URL *url.URL

	// Label declares the expected page type.
	Label PageLabel

	// Depth is the distance from the seed page (seeds are 0).
	Depth int

	// Referrer is the URL of the page this link was discovered on.
	Referrer string

	// CategoryHint carries the listing page's category name into
	// detail tasks so the detail handler does not re-derive it.
	CategoryHint string

	// RetryCount tracks how many times the fetch has been re-attempted.
	RetryCount int

	// CreatedAt is when the task entered the frontier.
	CreatedAt time.Time
}

// NewCrawlTask parses rawURL and builds a task with the given label.
func NewCrawlTask(rawURL string, label PageLabel) (*CrawlTask, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("URL %q: %w", rawURL, ErrNotAbsolute)
	}
	return &CrawlTask{
		URL:       u,
		Label:     label,
		CreatedAt: time.Now(),
	}, nil
}

// URLString returns the string form of the task URL.
func (t *CrawlTask) URLString() string {
	if t.URL == nil {
		return ""
	}
	return t.URL.String()
}

// Host returns the hostname of the task URL.
func (t *CrawlTask) Host() string {
	if t.URL == nil {
		return ""
	}
	return t.URL.Hostname()
}
