package aggregate

import (
	"log/slog"
	"os"
	"testing"

	"github.com/vikiman365/scraper/internal/collect"
	"github.com/vikiman365/scraper/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func push(c *collect.Collection[*types.ProductRecord], recs ...*types.ProductRecord) {
	for _, r := range recs {
		c.Push(r)
	}
}

// --- Aggregator Tests ---

func TestOrganizeGroupsByCategory(t *testing.T) {
	products := collect.New[*types.ProductRecord]("products")
	categories := collect.New[*types.CategoryRollup]("categories")

	push(products,
		&types.ProductRecord{ID: "a1", Name: "Cloudmonster", Category: "Shoes", CurrentPrice: 1000, DiscountPercentage: 10},
		&types.ProductRecord{ID: "a2", Name: "Cloudsurfer", Category: "Shoes", CurrentPrice: 2000},
		&types.ProductRecord{ID: "b1", Name: "Tote", Category: "Bags", CurrentPrice: 500},
	)

	NewAggregator(testLogger).Organize(products, categories)

	rollups := categories.Items()
	if len(rollups) != 2 {
		t.Fatalf("expected 2 rollups, got %d", len(rollups))
	}

	// First-occurrence order: Shoes then Bags.
	shoes, bags := rollups[0], rollups[1]
	if shoes.CategoryName != "Shoes" || bags.CategoryName != "Bags" {
		t.Fatalf("unexpected order: %q, %q", shoes.CategoryName, bags.CategoryName)
	}

	if shoes.ProductCount != 2 {
		t.Errorf("expected 2 shoes, got %d", shoes.ProductCount)
	}
	if len(shoes.ProductIDs) != 2 || shoes.ProductIDs[0] != "a1" {
		t.Errorf("unexpected product IDs: %v", shoes.ProductIDs)
	}
	if shoes.PriceRange.Min != 1000 || shoes.PriceRange.Max != 2000 {
		t.Errorf("unexpected price range: %+v", shoes.PriceRange)
	}
	if shoes.PriceRange.Average != 1500 {
		t.Errorf("expected average 1500, got %v", shoes.PriceRange.Average)
	}
	// One product with 10% discount over two products rounds to 5.
	if shoes.AverageDiscount != 5 {
		t.Errorf("expected average discount 5, got %d", shoes.AverageDiscount)
	}

	if bags.PriceRange.Min != 500 || bags.PriceRange.Max != 500 || bags.PriceRange.Average != 500 {
		t.Errorf("unexpected bags price range: %+v", bags.PriceRange)
	}
}

func TestOrganizeUsesNameWhenIDMissing(t *testing.T) {
	products := collect.New[*types.ProductRecord]("products")
	categories := collect.New[*types.CategoryRollup]("categories")

	push(products, &types.ProductRecord{Name: "Nameless ID", Category: "Shoes"})

	NewAggregator(testLogger).Organize(products, categories)

	roll := categories.Items()[0]
	if len(roll.ProductIDs) != 1 || roll.ProductIDs[0] != "Nameless ID" {
		t.Errorf("expected name fallback in product IDs, got %v", roll.ProductIDs)
	}
}

func TestOrganizeUncategorized(t *testing.T) {
	products := collect.New[*types.ProductRecord]("products")
	categories := collect.New[*types.CategoryRollup]("categories")

	push(products, &types.ProductRecord{ID: "x", Name: "Stray"})

	NewAggregator(testLogger).Organize(products, categories)

	roll := categories.Items()[0]
	if roll.CategoryName != "Uncategorized" {
		t.Errorf("expected 'Uncategorized', got %q", roll.CategoryName)
	}
}

func TestOrganizeUnpricedProducts(t *testing.T) {
	products := collect.New[*types.ProductRecord]("products")
	categories := collect.New[*types.CategoryRollup]("categories")

	push(products,
		&types.ProductRecord{ID: "a", Name: "No Price", Category: "Shoes"},
		&types.ProductRecord{ID: "b", Name: "Also Free", Category: "Shoes"},
	)

	NewAggregator(testLogger).Organize(products, categories)

	roll := categories.Items()[0]
	if roll.PriceRange.Min != 0 || roll.PriceRange.Max != 0 || roll.PriceRange.Average != 0 {
		t.Errorf("expected zero price range without priced products, got %+v", roll.PriceRange)
	}
}

func TestOrganizeEmptyCollection(t *testing.T) {
	products := collect.New[*types.ProductRecord]("products")
	categories := collect.New[*types.CategoryRollup]("categories")

	NewAggregator(testLogger).Organize(products, categories)

	if categories.Count() != 0 {
		t.Errorf("expected no rollups, got %d", categories.Count())
	}
}

// --- Reporter Tests ---

func TestSummarize(t *testing.T) {
	products := collect.New[*types.ProductRecord]("products")
	categories := collect.New[*types.CategoryRollup]("categories")
	detailed := collect.New[*types.ProductRecord]("detailed-products")

	push(products,
		&types.ProductRecord{Name: "a", Category: "Shoes"},
		&types.ProductRecord{Name: "b", Category: "Shoes"},
		&types.ProductRecord{Name: "c", Category: "Bags"},
	)
	detailed.Push(&types.ProductRecord{Name: "a"})
	detailed.Push(&types.ProductRecord{Name: "c"})
	NewAggregator(testLogger).Organize(products, categories)

	s := NewReporter(testLogger).Summarize(products, categories, detailed)

	if s.Type != "summary" {
		t.Errorf("expected type 'summary', got %q", s.Type)
	}
	if s.TotalProducts != 3 || s.TotalCategories != 2 || s.DetailedProducts != 2 {
		t.Errorf("unexpected counts: %+v", s)
	}
	// 3 products over 2 categories rounds to 2.
	if s.ProductsPerCategory != 2 {
		t.Errorf("expected 2 products per category, got %d", s.ProductsPerCategory)
	}
	// 2 of 3 detailed: 67%.
	if s.SuccessRate != 67 {
		t.Errorf("expected success rate 67, got %d", s.SuccessRate)
	}
}

func TestSummarizeEmptyRun(t *testing.T) {
	products := collect.New[*types.ProductRecord]("products")
	categories := collect.New[*types.CategoryRollup]("categories")
	detailed := collect.New[*types.ProductRecord]("detailed-products")

	s := NewReporter(testLogger).Summarize(products, categories, detailed)

	if s.TotalProducts != 0 || s.TotalCategories != 0 || s.DetailedProducts != 0 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.ProductsPerCategory != 0 {
		t.Errorf("expected 0 products per category, got %d", s.ProductsPerCategory)
	}
	if s.SuccessRate != 0 {
		t.Errorf("expected 0 success rate, got %d", s.SuccessRate)
	}
}
