package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Category naming varies by page template, so resolution runs a fixed
// selector cascade. The length and currency filters below guard
// against capturing a price string or a paragraph instead of a label.
var categorySelectors = []string{
	".breadcrumb li:nth-last-child(2)",
	".category-title",
	".page-title",
	"h1",
	".section-title",
	"[data-category]",
}

const maxCategoryNameLen = 50

// CategoryName resolves a human-readable category name for a page.
// It tries the selector cascade, then derives a name from the URL
// path, then falls back to "General". siteToken marks URL segments
// belonging to the site itself (e.g. "oncloud") so they are skipped
// during URL derivation.
func CategoryName(doc *goquery.Document, pageURL, siteToken string) string {
	for _, selector := range categorySelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		text := strings.TrimSpace(sel.Text())
		if text != "" && !strings.Contains(text, "MXN") && len(text) < maxCategoryNameLen {
			return text
		}
	}

	if name := categoryFromURL(pageURL, siteToken); name != "" {
		return name
	}
	return "General"
}

// categoryFromURL title-cases the last meaningful path segment:
// "/shop/running-shoes" => "Running Shoes".
func categoryFromURL(pageURL, siteToken string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}

	var last string
	for _, part := range strings.Split(u.Path, "/") {
		if part == "" {
			continue
		}
		if siteToken != "" && strings.Contains(part, siteToken) {
			continue
		}
		last = part
	}
	if last == "" {
		return ""
	}

	words := strings.Split(last, "-")
	for i, w := range words {
		words[i] = upperFirst(w)
	}
	return strings.Join(words, " ")
}

// upperFirst uppercases the first rune only, preserving the rest.
func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
