package handler

import (
	"strings"

	"github.com/vikiman365/scraper/internal/types"
)

// Dispatcher routes a fetched page to the matching handler. It is the
// single decision point for page-type interpretation: explicit labels
// win, unlabeled pages fall back to content sniffing. Before any
// dispatch it checks the advisory product cap and short-circuits with
// a no-op when it has been reached, so already-enqueued tasks drain
// without producing new product work.
type Dispatcher struct {
	site        *site
	start       *StartHandler
	category    *CategoryHandler
	detail      *DetailHandler
	maxProducts int
}

// NewDispatcher wires the three handlers from shared deps.
// maxProducts of 0 disables the cap.
func NewDispatcher(deps Deps, maxProducts int) *Dispatcher {
	s := &site{Deps: deps}
	s.Logger = deps.Logger.With("component", "dispatcher")
	return &Dispatcher{
		site:        s,
		start:       &StartHandler{site: s},
		category:    &CategoryHandler{site: s},
		detail:      &DetailHandler{site: s},
		maxProducts: maxProducts,
	}
}

// Dispatch routes one page and reports what happened.
func (d *Dispatcher) Dispatch(task *types.CrawlTask, page *types.Page) (Result, error) {
	if d.maxProducts > 0 && d.site.Products.Count() >= d.maxProducts {
		d.site.Logger.Info("product limit reached, skipping page",
			"url", task.URLString(),
			"limit", d.maxProducts,
		)
		return Result{Skipped: true}, nil
	}

	switch task.Label {
	case types.LabelStart:
		d.site.Metrics.IncPage(task.Label.String())
		return d.start.Handle(task, page)
	case types.LabelCategory:
		d.site.Metrics.IncPage(task.Label.String())
		return d.category.Handle(task, page)
	case types.LabelDetail:
		d.site.Metrics.IncPage(task.Label.String())
		return d.detailResult(task, page)
	default:
		return d.sniff(task, page)
	}
}

// Route satisfies engine.Router.
func (d *Dispatcher) Route(task *types.CrawlTask, page *types.Page) error {
	_, err := d.Dispatch(task, page)
	return err
}

// sniff decides the page type for unlabeled tasks (e.g. externally
// seeded URLs carry no provenance). Detail signals: a product path
// segment in the URL, or a product-detail marker element in the DOM.
// Everything else is treated as a listing page.
func (d *Dispatcher) sniff(task *types.CrawlTask, page *types.Page) (Result, error) {
	if isDetailPage(task, page) {
		d.site.Metrics.IncPage(types.LabelDetail.String())
		return d.detailResult(task, page)
	}
	d.site.Metrics.IncPage(types.LabelCategory.String())
	return d.category.Handle(task, page)
}

func (d *Dispatcher) detailResult(task *types.CrawlTask, page *types.Page) (Result, error) {
	rec, err := d.detail.Handle(task, page)
	if err != nil {
		return Result{Handler: "detail"}, err
	}
	res := Result{Handler: "detail", Record: rec}
	if rec != nil {
		res.Products = 1
	}
	return res, nil
}

// isDetailPage checks the detail-page signals.
func isDetailPage(task *types.CrawlTask, page *types.Page) bool {
	u := task.URLString()
	if strings.Contains(u, "/product/") || strings.Contains(u, "/products/") {
		return true
	}
	doc, err := page.Document()
	if err != nil {
		return false
	}
	return doc.Find(".product-detail, [data-product-id], .product-view").Length() > 0
}
