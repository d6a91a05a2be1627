package types

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common failure modes.
var (
	ErrTimeout      = errors.New("request timed out")
	ErrMaxRetries   = errors.New("max retries exceeded")
	ErrDuplicate    = errors.New("duplicate URL")
	ErrOffsite      = errors.New("URL host outside allowed site")
	ErrNotAbsolute  = errors.New("URL is not absolute")
	ErrMaxDepth     = errors.New("max depth exceeded")
	ErrInvalidURL   = errors.New("invalid URL")
	ErrCrawlStopped = errors.New("crawl has been stopped")
	ErrEmptyBody    = errors.New("empty response body")
)

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
	Retryable  bool
	RetryAfter time.Duration // populated from Retry-After header on HTTP 429
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ExportError wraps errors that occur while exporting run output.
type ExportError struct {
	Backend string
	Err     error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error (%s): %v", e.Backend, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the record pipeline.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
