// Package aggregate computes the post-crawl rollups and the run
// summary. Both run exactly once, after the frontier drains, over
// snapshots of the output collections.
package aggregate

import (
	"log/slog"
	"math"

	"github.com/vikiman365/scraper/internal/collect"
	"github.com/vikiman365/scraper/internal/types"
)

const uncategorized = "Uncategorized"

// Aggregator folds the product collection into per-category rollups.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger.With("component", "aggregator")}
}

// Organize groups products by category and pushes one rollup per
// distinct category, in order of first occurrence. Deterministic for
// a fixed input collection.
func (a *Aggregator) Organize(products *collect.Collection[*types.ProductRecord], categories *collect.Collection[*types.CategoryRollup]) {
	items := products.Items()

	rollups := make(map[string]*types.CategoryRollup)
	discountSums := make(map[string]int)
	var order []string

	for _, p := range items {
		category := p.Category
		if category == "" {
			category = uncategorized
		}

		roll, ok := rollups[category]
		if !ok {
			roll = &types.CategoryRollup{CategoryName: category}
			rollups[category] = roll
			order = append(order, category)
		}

		roll.ProductCount++
		if p.ID != "" {
			roll.ProductIDs = append(roll.ProductIDs, p.ID)
		} else {
			roll.ProductIDs = append(roll.ProductIDs, p.Name)
		}

		if p.CurrentPrice > 0 {
			if roll.PriceRange.Min == 0 || p.CurrentPrice < roll.PriceRange.Min {
				roll.PriceRange.Min = p.CurrentPrice
			}
			if p.CurrentPrice > roll.PriceRange.Max {
				roll.PriceRange.Max = p.CurrentPrice
			}
			if p.DiscountPercentage > 0 {
				discountSums[category] += p.DiscountPercentage
			}
		}
	}

	// Second pass: per-category averages over the original collection.
	for _, category := range order {
		roll := rollups[category]

		var sum float64
		var priced int
		for _, p := range items {
			c := p.Category
			if c == "" {
				c = uncategorized
			}
			if c == category && p.CurrentPrice > 0 {
				sum += p.CurrentPrice
				priced++
			}
		}
		if priced > 0 {
			roll.PriceRange.Average = math.Round(sum/float64(priced)*100) / 100
		}
		if roll.ProductCount > 0 {
			roll.AverageDiscount = int(math.Round(float64(discountSums[category]) / float64(roll.ProductCount)))
		}

		categories.Push(roll)
	}

	a.logger.Info("organized products into categories",
		"products", len(items),
		"categories", len(order),
	)
}
