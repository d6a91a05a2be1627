package handler

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/vikiman365/scraper/internal/engine"
	"github.com/vikiman365/scraper/internal/extract"
	"github.com/vikiman365/scraper/internal/types"
)

// CategoryHandler processes product listing pages: it resolves the
// category name, pushes every listed product, and follows pagination.
type CategoryHandler struct {
	site *site
}

// Handle extracts the listing and enqueues pagination targets at the
// next depth. Re-enqueueing the current page is prevented by frontier
// dedup, not by this handler.
func (h *CategoryHandler) Handle(task *types.CrawlTask, page *types.Page) (Result, error) {
	res := Result{Handler: "category"}

	doc, err := page.Document()
	if err != nil {
		return res, err
	}

	category := extract.CategoryName(doc, page.FinalURL, h.site.SiteToken)
	logger := h.site.Logger.With("url", task.URLString(), "category", category)

	records, enqueued := extractListing(h.site, task, page, doc, category)
	res.Enqueued += enqueued
	for _, rec := range records {
		if h.site.pushProduct(h.site.Products, rec) {
			res.Products++
		}
	}

	if res.Products > 0 {
		logger.Info("listing processed", "products", res.Products)
	}

	res.Enqueued += h.enqueuePagination(task, page, doc)
	return res, nil
}

// enqueuePagination follows pagination controls and page/offset query
// parameters.
func (h *CategoryHandler) enqueuePagination(task *types.CrawlTask, page *types.Page, doc *goquery.Document) int {
	ectx := engine.EnqueueContext{
		Base:     page.BaseURL(),
		Referrer: page.FinalURL,
	}

	accepted := 0
	doc.Find(`.pagination a, .next-page, a[href*="page="], a[href*="offset="]`).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		if h.site.Frontier.Enqueue(href, types.LabelCategory, task.Depth+1, ectx) {
			accepted++
		}
	})
	return accepted
}
