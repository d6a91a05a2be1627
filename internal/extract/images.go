package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ImageMode selects how detail pages scan for product images.
type ImageMode string

const (
	// ImageModeBasic only looks at designated main/gallery containers.
	ImageModeBasic ImageMode = "basic"

	// ImageModeThorough scans every image on the page and classifies
	// the likely main image by URL and alt heuristics.
	ImageModeThorough ImageMode = "thorough"
)

const maxAdditionalImages = 9

// ImageSet is the outcome of image extraction for one detail page.
type ImageSet struct {
	MainImage        string
	AdditionalImages []string
}

var mainImageSelectors = []string{
	".main-image img",
	".product-image img",
	`[itemprop="image"]`,
	".gallery-main img",
}

// Images extracts product images in the requested mode. Relative
// sources resolve against base.
func Images(doc *goquery.Document, base *url.URL, siteToken string, mode ImageMode) ImageSet {
	if mode == ImageModeThorough {
		return thoroughImages(doc, base, siteToken)
	}
	return basicImages(doc, base)
}

// basicImages reads the designated main image container and gallery
// thumbnails.
func basicImages(doc *goquery.Document, base *url.URL) ImageSet {
	var set ImageSet

	for _, selector := range mainImageSelectors {
		img := doc.Find(selector).First()
		if img.Length() == 0 {
			continue
		}
		if resolved := resolveURL(imageSrc(img), base); resolved != "" {
			set.MainImage = resolved
			break
		}
	}

	doc.Find(".thumbnail img, .gallery-thumb img, .product-thumbnails img").EachWithBreak(func(i int, img *goquery.Selection) bool {
		if i >= 10 {
			return false
		}
		if resolved := resolveURL(imageSrc(img), base); resolved != "" {
			set.AdditionalImages = append(set.AdditionalImages, resolved)
		}
		return true
	})

	return set
}

// thoroughImages scans every <img> on the page. Icons, logos and
// offsite assets are skipped; the main image is the first one whose
// URL or alt text marks it as primary, else the first image found.
func thoroughImages(doc *goquery.Document, base *url.URL, siteToken string) ImageSet {
	type candidate struct {
		url string
		alt string
	}
	var all []candidate

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSrc(img)
		if src == "" || !strings.Contains(src, siteToken) {
			return
		}
		if strings.Contains(src, "icon") || strings.Contains(src, "logo") {
			return
		}
		resolved := resolveURL(src, base)
		if resolved == "" {
			return
		}
		alt, _ := img.Attr("alt")
		all = append(all, candidate{url: resolved, alt: alt})
	})

	var set ImageSet
	for _, c := range all {
		if strings.Contains(c.url, "main") ||
			strings.Contains(c.url, "primary") ||
			strings.Contains(strings.ToLower(c.alt), "main") {
			set.MainImage = c.url
			break
		}
	}
	if set.MainImage == "" && len(all) > 0 {
		set.MainImage = all[0].url
	}

	for _, c := range all {
		if c.url == set.MainImage {
			continue
		}
		set.AdditionalImages = append(set.AdditionalImages, c.url)
		if len(set.AdditionalImages) == maxAdditionalImages {
			break
		}
	}

	return set
}
