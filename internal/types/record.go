package types

import "time"

// ProductRecord is one scraped product. Listing pages produce shallow
// records; detail pages produce full ones. The two live in separate
// collections and are never merged.
type ProductRecord struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	URL       string    `json:"url" bson:"url"`
	Category  string    `json:"category" bson:"category"`
	ScrapedAt time.Time `json:"scrapedAt" bson:"scrapedAt"`

	SKU   string `json:"sku,omitempty" bson:"sku,omitempty"`
	Brand string `json:"brand,omitempty" bson:"brand,omitempty"`

	OriginalPrice      float64 `json:"originalPrice,omitempty" bson:"originalPrice,omitempty"`
	CurrentPrice       float64 `json:"currentPrice,omitempty" bson:"currentPrice,omitempty"`
	Currency           string  `json:"currency" bson:"currency"`
	DiscountPercentage int     `json:"discountPercentage,omitempty" bson:"discountPercentage,omitempty"`

	Description     string            `json:"description,omitempty" bson:"description,omitempty"`
	DescriptionHTML string            `json:"descriptionHtml,omitempty" bson:"descriptionHtml,omitempty"`
	Features        []string          `json:"features,omitempty" bson:"features,omitempty"`
	Specifications  map[string]string `json:"specifications,omitempty" bson:"specifications,omitempty"`

	InStock          bool   `json:"inStock" bson:"inStock"`
	AvailabilityText string `json:"availabilityText" bson:"availabilityText"`

	MainImage        string   `json:"mainImage,omitempty" bson:"mainImage,omitempty"`
	ImageAlt         string   `json:"imageAlt,omitempty" bson:"imageAlt,omitempty"`
	AdditionalImages []string `json:"additionalImages,omitempty" bson:"additionalImages,omitempty"`
}

// HasPricing reports whether both price fields resolved.
func (r *ProductRecord) HasPricing() bool {
	return r.OriginalPrice > 0 && r.CurrentPrice > 0
}

// PriceRange summarizes prices within a category.
type PriceRange struct {
	Min     float64 `json:"min" bson:"min"`
	Max     float64 `json:"max" bson:"max"`
	Average float64 `json:"average" bson:"average"`
}

// CategoryRollup is a per-category aggregate computed once after the
// crawl drains. It is never updated incrementally.
type CategoryRollup struct {
	CategoryName    string     `json:"categoryName" bson:"categoryName"`
	ProductCount    int        `json:"productCount" bson:"productCount"`
	ProductIDs      []string   `json:"productIds" bson:"productIds"`
	PriceRange      PriceRange `json:"priceRange" bson:"priceRange"`
	AverageDiscount int        `json:"averageDiscount" bson:"averageDiscount"`
}

// SummaryRecord is the final run summary, derived from collection
// counts only.
type SummaryRecord struct {
	Type                string    `json:"type" bson:"type"`
	Timestamp           time.Time `json:"timestamp" bson:"timestamp"`
	TotalProducts       int       `json:"totalProducts" bson:"totalProducts"`
	TotalCategories     int       `json:"totalCategories" bson:"totalCategories"`
	DetailedProducts    int       `json:"detailedProducts" bson:"detailedProducts"`
	ProductsPerCategory int       `json:"productsPerCategory" bson:"productsPerCategory"`
	SuccessRate         int       `json:"successRate" bson:"successRate"`
}

// ErrorRecord logs one terminal per-task fetch failure. A failed task
// never aborts the crawl; it becomes data.
type ErrorRecord struct {
	Type      string    `json:"type" bson:"type"`
	URL       string    `json:"url" bson:"url"`
	Error     string    `json:"error" bson:"error"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// NewErrorRecord builds an ErrorRecord for a failed task URL.
func NewErrorRecord(url string, err error) *ErrorRecord {
	return &ErrorRecord{
		Type:      "error",
		URL:       url,
		Error:     err.Error(),
		Timestamp: time.Now(),
	}
}
