package handler

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/vikiman365/scraper/internal/collect"
	"github.com/vikiman365/scraper/internal/engine"
	"github.com/vikiman365/scraper/internal/extract"
	"github.com/vikiman365/scraper/internal/pipeline"
	"github.com/vikiman365/scraper/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// testSite bundles the live collaborators a handler test needs.
type testSite struct {
	deps     Deps
	frontier *engine.Frontier
	products *collect.Collection[*types.ProductRecord]
	detailed *collect.Collection[*types.ProductRecord]
}

func newTestSite(t testing.TB) *testSite {
	t.Helper()
	frontier := engine.NewFrontier("oncloud.com.mx", 0, nil)
	products := collect.New[*types.ProductRecord]("products")
	detailed := collect.New[*types.ProductRecord]("detailed-products")
	return &testSite{
		deps: Deps{
			Frontier:     frontier,
			Products:     products,
			Detailed:     detailed,
			Pipeline:     pipeline.Default(testLogger, "MXN"),
			Logger:       testLogger,
			SiteToken:    "oncloud",
			DefaultBrand: "On Cloud",
			ImageMode:    extract.ImageModeBasic,
		},
		frontier: frontier,
		products: products,
		detailed: detailed,
	}
}

func makeTask(t testing.TB, rawURL string, label types.PageLabel) *types.CrawlTask {
	t.Helper()
	task, err := types.NewCrawlTask(rawURL, label)
	if err != nil {
		t.Fatalf("build task: %v", err)
	}
	return task
}

func makePage(t testing.TB, rawURL, body string) (*types.CrawlTask, *types.Page) {
	t.Helper()
	task := makeTask(t, rawURL, types.LabelUnknown)
	return task, types.NewPage(task, 200, []byte(body), rawURL, time.Millisecond)
}
