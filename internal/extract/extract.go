// Package extract implements the field extraction strategies for
// product pages. Every field is pulled through an ordered cascade of
// independent strategies; the first one that yields a value wins.
// A miss is an absent field, never an error.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Strategy is one extraction attempt over a document. It returns the
// extracted value and whether it succeeded.
type Strategy func(doc *goquery.Document) (string, bool)

// First runs strategies in order and returns the first success.
func First(doc *goquery.Document, strategies ...Strategy) (string, bool) {
	for _, s := range strategies {
		if v, ok := s(doc); ok {
			return v, true
		}
	}
	return "", false
}

// Text extracts the trimmed text of the first element matching selector.
func Text(selector string) Strategy {
	return func(doc *goquery.Document) (string, bool) {
		v := strings.TrimSpace(doc.Find(selector).First().Text())
		return v, v != ""
	}
}

// Attr extracts an attribute of the first element matching selector.
func Attr(selector, attr string) Strategy {
	return func(doc *goquery.Document) (string, bool) {
		v, exists := doc.Find(selector).First().Attr(attr)
		v = strings.TrimSpace(v)
		return v, exists && v != ""
	}
}

// MetaContent extracts the content attribute of a meta tag by property.
func MetaContent(property string) Strategy {
	return Attr(`meta[property="`+property+`"]`, "content")
}

// resolveURL resolves a possibly-relative src against base. Returns
// "" when the reference cannot be resolved.
func resolveURL(src string, base *url.URL) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return ""
	}
	return u.String()
}

// imageSrc reads src with a data-src fallback for lazy-loaded images.
func imageSrc(sel *goquery.Selection) string {
	if src, ok := sel.Attr("src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src)
	}
	if src, ok := sel.Attr("data-src"); ok {
		return strings.TrimSpace(src)
	}
	return ""
}
