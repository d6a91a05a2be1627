package integration

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vikiman365/scraper/internal/aggregate"
	"github.com/vikiman365/scraper/internal/collect"
	"github.com/vikiman365/scraper/internal/engine"
	"github.com/vikiman365/scraper/internal/extract"
	"github.com/vikiman365/scraper/internal/handler"
	"github.com/vikiman365/scraper/internal/pipeline"
	"github.com/vikiman365/scraper/internal/storage"
	"github.com/vikiman365/scraper/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// siteFetcher serves a small in-memory storefront.
type siteFetcher struct {
	pages map[string]string
}

func (s *siteFetcher) Fetch(_ context.Context, task *types.CrawlTask) (*types.Page, error) {
	body, ok := s.pages[task.URLString()]
	if !ok {
		return nil, &types.FetchError{URL: task.URLString(), StatusCode: 404, Err: fmt.Errorf("not found"), Retryable: false}
	}
	return types.NewPage(task, 200, []byte(body), task.URLString(), time.Millisecond), nil
}

func (s *siteFetcher) Close() error { return nil }

func storefront() map[string]string {
	return map[string]string{
		"https://oncloud.com.mx/": `<html><body>
			<nav>
				<a href="/shop/running">Running</a>
				<a href="/shop/sandals">Sandals</a>
			</nav>
		</body></html>`,

		"https://oncloud.com.mx/shop/running": `<html><body>
			<h1>Running</h1>
			<div class="product-card">
				<h3>Cloudmonster</h3>
				<span>Antes: 3,499 MXN Ahora: 2,799 MXN</span>
				<a href="/product/cloudmonster">Ver</a>
			</div>
			<div class="pagination"><a href="/shop/running?page=2">2</a></div>
		</body></html>`,

		"https://oncloud.com.mx/shop/running?page=2": `<html><body>
			<h1>Running</h1>
			<div class="product-card">
				<h3>Cloudsurfer</h3>
				<span>Ahora: 3,199 MXN</span>
				<a href="/product/cloudsurfer">Ver</a>
			</div>
		</body></html>`,

		"https://oncloud.com.mx/shop/sandals": `<html><body>
			<h1>Sandals</h1>
			<div class="product-card">
				<h3>Cloudtilt Sandal</h3>
				<span>999 MXN</span>
				<a href="/product/cloudtilt-sandal">Ver</a>
			</div>
		</body></html>`,

		"https://oncloud.com.mx/product/cloudmonster": `<html>
			<head><title>Cloudmonster | On Cloud</title></head><body>
			<h1 class="product-title">Cloudmonster</h1>
			<span itemprop="sku">ON-CM-42</span>
			<div class="price">Antes: 3,499 MXN Ahora: 2,799 MXN</div>
			<div class="stock">Disponible</div>
		</body></html>`,

		"https://oncloud.com.mx/product/cloudsurfer": `<html>
			<head><title>Cloudsurfer | On Cloud</title></head><body>
			<h1 class="product-title">Cloudsurfer</h1>
			<div class="price">Ahora: 3,199 MXN</div>
			<div class="stock">Agotado</div>
		</body></html>`,

		"https://oncloud.com.mx/product/cloudtilt-sandal": `<html>
			<head><title>Cloudtilt Sandal | On Cloud</title></head><body>
			<h1 class="product-title">Cloudtilt Sandal</h1>
			<div class="price">999 MXN</div>
		</body></html>`,
	}
}

// --- End-to-End Crawl Tests ---

func TestFullCrawl(t *testing.T) {
	products := collect.New[*types.ProductRecord]("products")
	detailed := collect.New[*types.ProductRecord]("detailed-products")
	categories := collect.New[*types.CategoryRollup]("categories")
	errs := collect.New[*types.ErrorRecord]("errors")

	frontier := engine.NewFrontier("oncloud.com.mx", 5, nil)
	dispatcher := handler.NewDispatcher(handler.Deps{
		Frontier:     frontier,
		Products:     products,
		Detailed:     detailed,
		Pipeline:     pipeline.Default(testLogger, "MXN"),
		Logger:       testLogger,
		SiteToken:    "oncloud",
		DefaultBrand: "On Cloud",
		ImageMode:    extract.ImageModeBasic,
	}, 0)

	runner := engine.NewRunner(frontier, &siteFetcher{pages: storefront()}, dispatcher, errs, nil, testLogger, engine.RunnerOptions{
		Concurrency: 4,
	})

	if !frontier.Enqueue("https://oncloud.com.mx/", types.LabelStart, 0, engine.EnqueueContext{}) {
		t.Fatal("seed rejected")
	}

	done := make(chan struct{})
	go func() {
		runner.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("crawl did not drain")
	}

	if errs.Count() != 0 {
		for _, e := range errs.Items() {
			t.Logf("error: %s: %s", e.URL, e.Error)
		}
		t.Fatalf("expected clean crawl, got %d errors", errs.Count())
	}

	// Three detail pages, each visited once.
	if detailed.Count() != 3 {
		t.Fatalf("expected 3 detailed products, got %d", detailed.Count())
	}

	byName := map[string]*types.ProductRecord{}
	for _, rec := range detailed.Items() {
		byName[rec.Name] = rec
	}

	cm := byName["Cloudmonster"]
	if cm == nil {
		t.Fatal("missing Cloudmonster detail record")
	}
	if cm.SKU != "ON-CM-42" || cm.Brand != "On Cloud" || cm.Currency != "MXN" {
		t.Errorf("unexpected record: %+v", cm)
	}
	if cm.OriginalPrice != 3499 || cm.CurrentPrice != 2799 || cm.DiscountPercentage != 20 {
		t.Errorf("unexpected pricing: %+v", cm)
	}
	if !cm.InStock {
		t.Error("Cloudmonster should be in stock")
	}
	if cm.Category != "Running" {
		t.Errorf("expected category hint from listing, got %q", cm.Category)
	}
	if cm.ID == "" {
		t.Error("expected assigned ID")
	}

	if cs := byName["Cloudsurfer"]; cs == nil || cs.InStock {
		t.Error("Cloudsurfer should exist and be out of stock")
	}

	// Listing records landed during category handling.
	if products.Count() == 0 {
		t.Error("expected listing records")
	}

	// Aggregation over the listing collection.
	aggregate.NewAggregator(testLogger).Organize(products, categories)
	summary := aggregate.NewReporter(testLogger).Summarize(products, categories, detailed)

	names := map[string]bool{}
	for _, roll := range categories.Items() {
		names[roll.CategoryName] = true
	}
	if !names["Running"] || !names["Sandals"] {
		t.Errorf("expected Running and Sandals rollups, got %v", names)
	}

	if summary.Type != "summary" || summary.DetailedProducts != 3 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	// Export everything and confirm files land on disk.
	dir := t.TempDir()
	exp, err := storage.NewJSONExporter(dir, testLogger)
	if err != nil {
		t.Fatalf("create exporter: %v", err)
	}
	if err := exp.Export(&storage.RunOutput{
		Products:         products.Items(),
		DetailedProducts: detailed.Items(),
		Categories:       categories.Items(),
		Errors:           errs.Items(),
		Summary:          summary,
	}); err != nil {
		t.Fatalf("export error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "detailed-products.json")); err != nil {
		t.Errorf("expected export file: %v", err)
	}
}

func TestCrawlHonorsProductCap(t *testing.T) {
	products := collect.New[*types.ProductRecord]("products")
	detailed := collect.New[*types.ProductRecord]("detailed-products")
	errs := collect.New[*types.ErrorRecord]("errors")

	frontier := engine.NewFrontier("oncloud.com.mx", 5, nil)
	dispatcher := handler.NewDispatcher(handler.Deps{
		Frontier:     frontier,
		Products:     products,
		Detailed:     detailed,
		Pipeline:     pipeline.Default(testLogger, "MXN"),
		Logger:       testLogger,
		SiteToken:    "oncloud",
		DefaultBrand: "On Cloud",
		ImageMode:    extract.ImageModeBasic,
	}, 1)

	runner := engine.NewRunner(frontier, &siteFetcher{pages: storefront()}, dispatcher, errs, nil, testLogger, engine.RunnerOptions{
		Concurrency: 1,
	})

	frontier.Enqueue("https://oncloud.com.mx/", types.LabelStart, 0, engine.EnqueueContext{})
	runner.Run(context.Background())

	// The cap is advisory: the listing that crossed it completes, but
	// no later page produces products.
	if products.Count() > 2 {
		t.Errorf("expected product production to stop at the cap, got %d", products.Count())
	}
}
