package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vikiman365/scraper/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// --- JSON Exporter Tests ---

func TestJSONExporterWritesDatasets(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewJSONExporter(dir, testLogger)
	if err != nil {
		t.Fatalf("create exporter: %v", err)
	}
	defer exp.Close()

	out := &RunOutput{
		Products: []*types.ProductRecord{
			{ID: "a1", Name: "Cloudmonster", Category: "Shoes", CurrentPrice: 2999, Currency: "MXN", ScrapedAt: time.Now()},
		},
		DetailedProducts: []*types.ProductRecord{
			{ID: "a1", Name: "Cloudmonster", SKU: "ON-CM-42", ScrapedAt: time.Now()},
		},
		Categories: []*types.CategoryRollup{
			{CategoryName: "Shoes", ProductCount: 1, ProductIDs: []string{"a1"}},
		},
		Errors: []*types.ErrorRecord{
			types.NewErrorRecord("https://oncloud.com.mx/broken", os.ErrDeadlineExceeded),
		},
		Summary: &types.SummaryRecord{Type: "summary", TotalProducts: 1, TotalCategories: 1, DetailedProducts: 1, SuccessRate: 100},
	}

	if err := exp.Export(out); err != nil {
		t.Fatalf("export error: %v", err)
	}

	for _, name := range []string{"products.json", "detailed-products.json", "categories.json", "errors.json", "summary.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s written: %v", name, err)
		}
	}

	// Products round-trip with the documented field names.
	data, err := os.ReadFile(filepath.Join(dir, "products.json"))
	if err != nil {
		t.Fatalf("read products: %v", err)
	}
	var products []map[string]any
	if err := json.Unmarshal(data, &products); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0]["name"] != "Cloudmonster" || products[0]["currentPrice"] != float64(2999) {
		t.Errorf("unexpected product JSON: %v", products[0])
	}

	// Summary is a single object, not an array.
	data, err = os.ReadFile(filepath.Join(dir, "summary.json"))
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var summary map[string]any
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary["type"] != "summary" {
		t.Errorf("unexpected summary JSON: %v", summary)
	}
}

func TestJSONExporterEmptyRun(t *testing.T) {
	dir := t.TempDir()
	exp, err := NewJSONExporter(dir, testLogger)
	if err != nil {
		t.Fatalf("create exporter: %v", err)
	}

	if err := exp.Export(&RunOutput{}); err != nil {
		t.Fatalf("export error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "products.json"))
	if err != nil {
		t.Fatalf("read products: %v", err)
	}
	var products []any
	if err := json.Unmarshal(data, &products); err != nil {
		t.Fatalf("empty dataset must still be a JSON array: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("expected empty array, got %v", products)
	}
}

func TestJSONExporterCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	if _, err := NewJSONExporter(dir, testLogger); err != nil {
		t.Fatalf("expected nested dir created, got %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output dir missing: %v", err)
	}
}

// --- Multi-Exporter Tests ---

type countingExporter struct {
	exports int
	closed  bool
}

func (c *countingExporter) Name() string { return "counting" }

func (c *countingExporter) Export(out *RunOutput) error {
	c.exports++
	return nil
}

func (c *countingExporter) Close() error {
	c.closed = true
	return nil
}

func TestMultiExporterFansOut(t *testing.T) {
	a := &countingExporter{}
	b := &countingExporter{}
	multi := NewMultiExporter([]Exporter{a, b}, testLogger)

	if err := multi.Export(&RunOutput{}); err != nil {
		t.Fatalf("export error: %v", err)
	}
	if a.exports != 1 || b.exports != 1 {
		t.Errorf("expected both backends exported, got %d/%d", a.exports, b.exports)
	}

	if err := multi.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("expected both backends closed")
	}
}
