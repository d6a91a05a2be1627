package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ProductInfo extracts the product name, SKU and brand from a detail
// page. Name falls back to the <title> segment before the first "|".
// Brand is left empty when no strategy matches; the caller applies the
// configured default.
func ProductInfo(doc *goquery.Document) (name, sku, brand string) {
	name, _ = First(doc,
		Text(`h1.product-title, h1[itemprop="name"], .product-name`),
		func(d *goquery.Document) (string, bool) {
			title := d.Find("title").First().Text()
			title = strings.TrimSpace(strings.SplitN(title, "|", 2)[0])
			return title, title != ""
		},
	)

	sku, _ = First(doc,
		Text(`[itemprop="sku"], .product-sku, .sku`),
		MetaContent("product:sku"),
	)

	brand, _ = First(doc,
		Text(`[itemprop="brand"], .product-brand`),
		MetaContent("product:brand"),
	)

	return name, sku, brand
}

var descriptionSelectors = []string{
	`[itemprop="description"]`,
	".product-description",
	".description",
	".product-info",
	".product-details",
}

// Description extracts the product description (text and inner HTML)
// plus the feature bullet list.
func Description(doc *goquery.Document) (text, html string, features []string) {
	for _, selector := range descriptionSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text = strings.TrimSpace(sel.Text())
		html, _ = sel.Html()
		break
	}

	doc.Find(".features li, .product-features li, .benefits li, .highlights li").Each(func(_ int, li *goquery.Selection) {
		if v := strings.TrimSpace(li.Text()); v != "" {
			features = append(features, v)
		}
	})

	return text, html, features
}

// Specifications extracts key/value pairs from spec tables and
// definition lists. Returns nil when nothing matched.
func Specifications(doc *goquery.Document) map[string]string {
	specs := make(map[string]string)

	doc.Find("table.specifications tr, .specs tr, .attributes tr").Each(func(_ int, row *goquery.Selection) {
		key := strings.TrimSpace(row.Find("td:first-child, th:first-child").First().Text())
		value := strings.TrimSpace(row.Find("td:last-child").First().Text())
		if key != "" && value != "" {
			specs[key] = value
		}
	})

	doc.Find("dl dt").Each(func(_ int, dt *goquery.Selection) {
		key := strings.TrimSpace(dt.Text())
		value := strings.TrimSpace(dt.NextFiltered("dd").Text())
		if key != "" && value != "" {
			specs[key] = value
		}
	})

	if len(specs) == 0 {
		return nil
	}
	return specs
}

// Availability extracts the stock status. A product counts as in stock
// when a stock element exists and its text carries neither the Spanish
// nor the English out-of-stock marker. No stock element means not in
// stock, with empty availability text.
func Availability(doc *goquery.Document) (inStock bool, text string) {
	sel := doc.Find(".stock, .availability, .in-stock, .out-of-stock").First()
	if sel.Length() == 0 {
		return false, ""
	}
	text = strings.TrimSpace(sel.Text())
	lower := strings.ToLower(text)
	inStock = !strings.Contains(lower, "agotado") && !strings.Contains(lower, "out of stock")
	return inStock, text
}
