package storage

import (
	"fmt"
	"log/slog"

	"github.com/vikiman365/scraper/internal/config"
	"github.com/vikiman365/scraper/internal/types"
)

// RunOutput bundles everything a finished crawl produces.
type RunOutput struct {
	Products         []*types.ProductRecord
	DetailedProducts []*types.ProductRecord
	Categories       []*types.CategoryRollup
	Errors           []*types.ErrorRecord
	Summary          *types.SummaryRecord
}

// Exporter is the interface for all export backends.
type Exporter interface {
	// Export persists the run output.
	Export(out *RunOutput) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the export backend identifier.
	Name() string
}

// NewExporter creates the export backend(s) selected by configuration.
func NewExporter(cfg *config.OutputConfig, logger *slog.Logger) (Exporter, error) {
	switch cfg.Type {
	case "json":
		return NewJSONExporter(cfg.Path, logger)
	case "mongo":
		return NewMongoExporter(cfg.MongoURI, cfg.MongoDatabase, logger)
	case "both":
		jsonExp, err := NewJSONExporter(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		mongoExp, err := NewMongoExporter(cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		return NewMultiExporter([]Exporter{jsonExp, mongoExp}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported output type: %s", cfg.Type)
	}
}
