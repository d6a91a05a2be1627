package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The storefront renders prices in Mexican pesos with either English
// WooCommerce-style labels or Spanish "Antes/Ahora" labels. Patterns
// are tried in priority order and the first match wins per field.
var originalPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Original price was:\s*([\d,.]+)MXN`),
	regexp.MustCompile(`(?i)Original[^:]*:\s*([\d,.]+)\s*MXN`),
	regexp.MustCompile(`(?i)Antes:\s*([\d,.]+)\s*MXN`),
}

var currentPricePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Current price is:\s*([\d,.]+)MXN`),
	regexp.MustCompile(`(?i)Precio actual:\s*([\d,.]+)\s*MXN`),
	regexp.MustCompile(`(?i)Ahora:\s*([\d,.]+)\s*MXN`),
	regexp.MustCompile(`(\d+[\d,.]*)\s*MXN`), // bare amount, last resort
}

// PriceQuote holds the prices recovered from free text. A zero value
// means the field did not resolve.
type PriceQuote struct {
	Original float64
	Current  float64
}

// ParsePrice scans text for original and current prices. It never
// fails; absent fields stay zero.
func ParsePrice(text string) PriceQuote {
	var q PriceQuote
	if text == "" {
		return q
	}
	for _, re := range originalPricePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			q.Original = parseAmount(m[1])
			break
		}
	}
	for _, re := range currentPricePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			q.Current = parseAmount(m[1])
			break
		}
	}
	return q
}

// Discount computes the discount percentage from the quote. It reports
// false unless both prices resolved to positive values; a current
// price above the original clamps to 0 rather than going negative.
func (q PriceQuote) Discount() (int, bool) {
	if q.Original <= 0 || q.Current <= 0 {
		return 0, false
	}
	d := int(math.Round((1 - q.Current/q.Original) * 100))
	if d < 0 {
		d = 0
	}
	return d, true
}

// parseAmount strips thousands separators and parses a decimal.
// "1,299.50" => 1299.5. Returns 0 on malformed input.
func parseAmount(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.Trim(s, ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
