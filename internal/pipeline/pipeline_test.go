package pipeline

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/vikiman365/scraper/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

// --- Pipeline Tests ---

func TestDefaultChain(t *testing.T) {
	p := Default(testLogger, "MXN")

	if p.Len() != 3 {
		t.Fatalf("expected 3 middleware, got %d", p.Len())
	}

	rec, err := p.Process(&types.ProductRecord{
		Name:     "  Cloudmonster  ",
		Category: " Running ",
		Features: []string{" Drop: 6mm "},
	})
	if err != nil {
		t.Fatalf("process error: %v", err)
	}
	if rec.Name != "Cloudmonster" {
		t.Errorf("expected trimmed name, got %q", rec.Name)
	}
	if rec.Category != "Running" {
		t.Errorf("expected trimmed category, got %q", rec.Category)
	}
	if rec.Features[0] != "Drop: 6mm" {
		t.Errorf("expected trimmed feature, got %q", rec.Features[0])
	}
	if rec.Currency != "MXN" {
		t.Errorf("expected currency default, got %q", rec.Currency)
	}
}

func TestRequiredNameDrops(t *testing.T) {
	p := Default(testLogger, "MXN")

	rec, err := p.Process(&types.ProductRecord{Name: "   "})
	if err != nil {
		t.Fatalf("process error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected whitespace-only name dropped, got %+v", rec)
	}
}

func TestCurrencyNotOverwritten(t *testing.T) {
	p := Default(testLogger, "MXN")

	rec, err := p.Process(&types.ProductRecord{Name: "x", Currency: "USD"})
	if err != nil {
		t.Fatalf("process error: %v", err)
	}
	if rec.Currency != "USD" {
		t.Errorf("expected existing currency preserved, got %q", rec.Currency)
	}
}

// failingMiddleware always errors.
type failingMiddleware struct{}

func (m *failingMiddleware) Name() string { return "failing" }

func (m *failingMiddleware) Process(rec *types.ProductRecord) (*types.ProductRecord, error) {
	return nil, errors.New("boom")
}

func TestMiddlewareErrorWrapped(t *testing.T) {
	p := New(testLogger)
	p.Use(&failingMiddleware{})

	_, err := p.Process(&types.ProductRecord{Name: "x"})
	if err == nil {
		t.Fatal("expected error")
	}

	var perr *types.PipelineError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PipelineError, got %T", err)
	}
	if perr.Stage != "failing" {
		t.Errorf("expected stage 'failing', got %q", perr.Stage)
	}
}

func TestEmptyPipelinePassesThrough(t *testing.T) {
	p := New(testLogger)

	in := &types.ProductRecord{Name: "untouched"}
	out, err := p.Process(in)
	if err != nil {
		t.Fatalf("process error: %v", err)
	}
	if out != in {
		t.Error("expected record passed through unchanged")
	}
}
