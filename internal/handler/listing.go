package handler

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vikiman365/scraper/internal/engine"
	"github.com/vikiman365/scraper/internal/extract"
	"github.com/vikiman365/scraper/internal/types"
)

// extractListing is the shared routine for pulling product summaries
// off a listing or home page. Two independent heuristics run over the
// same document and their results are concatenated; a product found by
// both is deliberately listed twice. Dedup is not attempted here —
// detail pages are the source of truth.
//
// Returns the extracted records (not yet pushed) and the number of
// detail tasks the frontier accepted.
func extractListing(s *site, task *types.CrawlTask, page *types.Page, doc *goquery.Document, category string) ([]*types.ProductRecord, int) {
	base := page.BaseURL()
	ectx := engine.EnqueueContext{
		Base:     base,
		Referrer: page.FinalURL,
		Category: category,
	}

	var records []*types.ProductRecord
	enqueued := 0

	// Strategy 1: product cards. A card without a resolvable name is
	// discarded outright — not pushed, not enqueued.
	doc.Find(".product-card, .product-item, .product, [data-product]").Each(func(_ int, card *goquery.Selection) {
		rec := recordFromCard(card, page, category)
		if rec == nil {
			return
		}
		records = append(records, rec)

		if href := detailHref(card); href != "" {
			if s.Frontier.Enqueue(href, types.LabelDetail, task.Depth+1, ectx) {
				enqueued++
			}
		}
	})

	// Strategy 2: product-path links. Builds a minimal record from
	// the anchor's own context.
	doc.Find(`a[href*="/product/"], a[href*="/products/"], a[href*="-p-"]`).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}

		rec := recordFromLink(a, page, category)
		if rec == nil {
			return
		}
		records = append(records, rec)

		if s.Frontier.Enqueue(href, types.LabelDetail, task.Depth+1, ectx) {
			enqueued++
		}
	})

	return records, enqueued
}

// recordFromCard builds a shallow record from one product card.
// Returns nil when no name resolves.
func recordFromCard(card *goquery.Selection, page *types.Page, category string) *types.ProductRecord {
	name := strings.TrimSpace(card.Find(".product-title, .product-name, h3, h4, .name").First().Text())
	if name == "" {
		return nil
	}

	rec := &types.ProductRecord{
		Name:      name,
		URL:       page.FinalURL,
		Category:  category,
		ScrapedAt: time.Now(),
	}

	// Optional stable id from a data attribute.
	if id, ok := card.Attr("data-product-id"); ok {
		rec.ID = id
	} else if id, ok := card.Attr("data-id"); ok {
		rec.ID = id
	}

	applyQuote(rec, extract.ParsePrice(card.Text()))

	if img := card.Find("img").First(); img.Length() > 0 {
		src, ok := img.Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			src, _ = img.Attr("data-src")
		}
		if resolved := resolveAgainst(src, page); resolved != "" {
			rec.MainImage = resolved
			if alt, ok := img.Attr("alt"); ok && alt != "" {
				rec.ImageAlt = alt
			} else {
				rec.ImageAlt = name
			}
		}
	}

	return rec
}

// recordFromLink builds a minimal record from a product-path anchor.
// Name priority: visible text, title attribute, image alt text.
func recordFromLink(a *goquery.Selection, page *types.Page, category string) *types.ProductRecord {
	href, _ := a.Attr("href")
	productURL := resolveAgainst(href, page)
	if productURL == "" {
		return nil
	}

	name := strings.TrimSpace(a.Text())
	if name == "" {
		name, _ = a.Attr("title")
		name = strings.TrimSpace(name)
	}
	if name == "" {
		name, _ = a.Find("img").First().Attr("alt")
		name = strings.TrimSpace(name)
	}
	if name == "" {
		name = "Unknown Product"
	}

	rec := &types.ProductRecord{
		Name:      name,
		URL:       productURL,
		Category:  category,
		ScrapedAt: time.Now(),
	}

	// Price hints usually live on the surrounding block, not the
	// anchor itself.
	applyQuote(rec, extract.ParsePrice(a.Closest("div").Text()))

	return rec
}

// detailHref finds a usable outbound link on or under a card.
func detailHref(card *goquery.Selection) string {
	href, ok := card.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		href, ok = card.Find("a").First().Attr("href")
	}
	if !ok || strings.TrimSpace(href) == "" {
		href, _ = card.Closest("a").Attr("href")
	}

	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.Contains(href, "javascript") {
		return ""
	}
	return href
}

// applyQuote copies a price quote onto a record and derives the
// discount when both prices resolved.
func applyQuote(rec *types.ProductRecord, q extract.PriceQuote) {
	if q.Original > 0 {
		rec.OriginalPrice = q.Original
	}
	if q.Current > 0 {
		rec.CurrentPrice = q.Current
	}
	if d, ok := q.Discount(); ok {
		rec.DiscountPercentage = d
	}
}

// resolveAgainst resolves a possibly-relative href against the page
// base URL. Returns "" when resolution fails.
func resolveAgainst(href string, page *types.Page) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base := page.BaseURL()
	u, err := base.Parse(href)
	if err != nil || !u.IsAbs() {
		return ""
	}
	return u.String()
}
