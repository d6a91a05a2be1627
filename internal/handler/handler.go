// Package handler contains the per-page-type crawl logic. Handlers
// combine the extraction strategies, push finished records to their
// output collection, and feed newly discovered links back to the
// frontier. All shared state (frontier, collections) is injected; no
// ambient globals.
package handler

import (
	"log/slog"

	"github.com/vikiman365/scraper/internal/collect"
	"github.com/vikiman365/scraper/internal/engine"
	"github.com/vikiman365/scraper/internal/extract"
	"github.com/vikiman365/scraper/internal/observability"
	"github.com/vikiman365/scraper/internal/pipeline"
	"github.com/vikiman365/scraper/internal/types"
)

// Enqueuer is the only frontier capability handlers receive. The
// frontier stays the single authority on URL scheduling.
type Enqueuer interface {
	Enqueue(href string, label types.PageLabel, depth int, ectx engine.EnqueueContext) bool
}

// Result reports what a handler did with one page.
type Result struct {
	// Handler names the handler that processed the page.
	Handler string

	// Products is the number of records pushed to a collection.
	Products int

	// Enqueued is the number of new tasks the frontier accepted.
	Enqueued int

	// Record is the finished detail record, set only by the detail
	// handler. Callers may inspect it; they must not re-push it.
	Record *types.ProductRecord

	// Skipped is true when the product cap short-circuited dispatch.
	Skipped bool
}

// Deps bundles the injected collaborators shared by all handlers.
type Deps struct {
	Frontier Enqueuer
	Products *collect.Collection[*types.ProductRecord]
	Detailed *collect.Collection[*types.ProductRecord]
	Pipeline *pipeline.Pipeline
	Metrics  *observability.Metrics
	Logger   *slog.Logger

	// SiteToken marks URL/image segments belonging to the site
	// itself (e.g. "oncloud").
	SiteToken string

	// DefaultBrand fills the brand field when no strategy matches.
	DefaultBrand string

	// ImageMode selects basic or thorough image extraction.
	ImageMode extract.ImageMode
}

// site is the shared core embedded by each handler.
type site struct {
	Deps
}

// pushProduct runs a record through the pipeline and appends it to the
// given collection. Returns false when the pipeline dropped it.
func (s *site) pushProduct(c *collect.Collection[*types.ProductRecord], rec *types.ProductRecord) bool {
	processed, err := s.Pipeline.Process(rec)
	if err != nil {
		s.Logger.Warn("pipeline rejected record", "url", rec.URL, "error", err)
		return false
	}
	if processed == nil {
		return false
	}
	c.Push(processed)
	s.Metrics.IncProducts(1)
	return true
}
