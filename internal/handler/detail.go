package handler

import (
	"time"

	"github.com/vikiman365/scraper/internal/extract"
	"github.com/vikiman365/scraper/internal/types"
)

// DetailHandler builds one full ProductRecord from a product detail
// page by merging the outputs of every extractor, then assigns the
// record's identity and pushes it to the detailed collection.
type DetailHandler struct {
	site *site
}

// Handle returns the finished record so callers can verify it; the
// record has already been pushed and must not be pushed again.
func (h *DetailHandler) Handle(task *types.CrawlTask, page *types.Page) (*types.ProductRecord, error) {
	doc, err := page.Document()
	if err != nil {
		return nil, err
	}

	rec := &types.ProductRecord{
		URL:       task.URLString(),
		ScrapedAt: time.Now(),
	}

	// Category comes from the listing page when the task carries it.
	rec.Category = task.CategoryHint
	if rec.Category == "" {
		rec.Category = extract.CategoryName(doc, page.FinalURL, h.site.SiteToken)
	}

	rec.Name, rec.SKU, rec.Brand = extract.ProductInfo(doc)
	if rec.Brand == "" {
		rec.Brand = h.site.DefaultBrand
	}

	// Price: prefer the most specific price element; fall back to the
	// whole page text as a last resort.
	priceText := doc.Find(`.price, .product-price, [itemprop="price"], .current-price`).Text()
	if priceText == "" {
		priceText = doc.Text()
	}
	applyQuote(rec, extract.ParsePrice(priceText))

	if currency, ok := extract.Attr(`[itemprop="priceCurrency"]`, "content")(doc); ok {
		rec.Currency = currency
	}

	rec.Description, rec.DescriptionHTML, rec.Features = extract.Description(doc)
	rec.Specifications = extract.Specifications(doc)
	rec.InStock, rec.AvailabilityText = extract.Availability(doc)

	images := extract.Images(doc, page.BaseURL(), h.site.SiteToken, h.site.ImageMode)
	rec.MainImage = images.MainImage
	rec.AdditionalImages = images.AdditionalImages

	// Identity last, so it can key off the final SKU.
	rec.ID = extract.BuildID(rec)

	if !h.site.pushProduct(h.site.Detailed, rec) {
		h.site.Logger.Warn("detail record dropped", "url", task.URLString())
		return nil, nil
	}

	h.site.Logger.Debug("detail product saved",
		"url", task.URLString(),
		"name", rec.Name,
		"id", rec.ID,
	)
	return rec, nil
}
