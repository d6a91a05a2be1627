package aggregate

import (
	"log/slog"
	"math"
	"time"

	"github.com/vikiman365/scraper/internal/collect"
	"github.com/vikiman365/scraper/internal/types"
)

// Reporter builds the final run summary from collection counts only.
type Reporter struct {
	logger *slog.Logger
}

// NewReporter creates a Reporter.
func NewReporter(logger *slog.Logger) *Reporter {
	return &Reporter{logger: logger.With("component", "reporter")}
}

// Summarize computes the SummaryRecord. Both ratios guard their zero
// denominators: no categories counts as one, no products yields a
// success rate of 0.
func (r *Reporter) Summarize(
	products *collect.Collection[*types.ProductRecord],
	categories *collect.Collection[*types.CategoryRollup],
	detailed *collect.Collection[*types.ProductRecord],
) *types.SummaryRecord {
	productCount := products.Count()
	categoryCount := categories.Count()
	detailedCount := detailed.Count()

	perCategory := categoryCount
	if perCategory == 0 {
		perCategory = 1
	}

	successRate := 0
	if detailedCount > 0 && productCount > 0 {
		successRate = int(math.Round(float64(detailedCount) / float64(productCount) * 100))
	}

	summary := &types.SummaryRecord{
		Type:                "summary",
		Timestamp:           time.Now(),
		TotalProducts:       productCount,
		TotalCategories:     categoryCount,
		DetailedProducts:    detailedCount,
		ProductsPerCategory: int(math.Round(float64(productCount) / float64(perCategory))),
		SuccessRate:         successRate,
	}

	r.logger.Info("run summary",
		"total_products", summary.TotalProducts,
		"total_categories", summary.TotalCategories,
		"detailed_products", summary.DetailedProducts,
		"products_per_category", summary.ProductsPerCategory,
		"success_rate", summary.SuccessRate,
	)
	return summary
}
