package handler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vikiman365/scraper/internal/engine"
	"github.com/vikiman365/scraper/internal/types"
)

// StartHandler processes the homepage: it discovers category links
// from navigation regions and category-marker URLs, and runs the
// shared listing routine because homepages often surface products
// directly. It guarantees frontier growth only; the homepage may have
// zero products.
type StartHandler struct {
	site *site
}

const homepageCategory = "Homepage"

// Handle extracts category links and enqueues them at depth 1.
func (h *StartHandler) Handle(task *types.CrawlTask, page *types.Page) (Result, error) {
	res := Result{Handler: "start"}

	doc, err := page.Document()
	if err != nil {
		return res, err
	}

	base := page.BaseURL()
	logger := h.site.Logger.With("url", task.URLString())

	// Local dedup before the frontier sees anything; two selector
	// passes routinely find the same href.
	seen := make(map[string]struct{})
	var links []string
	collectLink := func(href string) {
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	}

	doc.Find("nav a, .navigation a, .menu a, .category-list a").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			collectLink(href)
		}
	})
	doc.Find(`a[href*="category"], a[href*="collection"], a[href*="shop"]`).Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			collectLink(href)
		}
	})

	ectx := engine.EnqueueContext{Base: base, Referrer: page.FinalURL}
	for _, link := range links {
		if h.site.Frontier.Enqueue(link, types.LabelCategory, task.Depth+1, ectx) {
			res.Enqueued++
		}
	}

	logger.Info("start page processed", "category_links", res.Enqueued)

	// Products found on the homepage are not pushed; listing
	// extraction here only grows the frontier with detail tasks.
	_, enqueued := extractListing(h.site, task, page, doc, homepageCategory)
	res.Enqueued += enqueued

	return res, nil
}
