package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// JSONExporter writes each dataset of a run as a pretty-printed JSON
// file under the output directory.
type JSONExporter struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewJSONExporter creates a new JSON file exporter.
func NewJSONExporter(outputDir string, logger *slog.Logger) (*JSONExporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	return &JSONExporter{
		dir:    outputDir,
		logger: logger.With("component", "json_exporter"),
	}, nil
}

func (e *JSONExporter) Name() string { return "json" }

func (e *JSONExporter) Export(out *RunOutput) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Nil slices still serialize as [], so consumers always see arrays.
	datasets := []struct {
		file string
		data any
	}{
		{"products.json", orEmpty(out.Products)},
		{"detailed-products.json", orEmpty(out.DetailedProducts)},
		{"categories.json", orEmpty(out.Categories)},
		{"errors.json", orEmpty(out.Errors)},
		{"summary.json", out.Summary},
	}

	for _, ds := range datasets {
		if err := e.writeFile(ds.file, ds.data); err != nil {
			return err
		}
	}

	e.logger.Info("JSON export complete",
		"dir", e.dir,
		"products", len(out.Products),
		"detailed", len(out.DetailedProducts),
		"categories", len(out.Categories),
		"errors", len(out.Errors),
	)
	return nil
}

func (e *JSONExporter) writeFile(name string, data any) error {
	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", name, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}

func (e *JSONExporter) Close() error {
	return nil
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
