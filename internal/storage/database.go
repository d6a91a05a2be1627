package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoExporter writes each dataset of a run to its own MongoDB
// collection.
type MongoExporter struct {
	client *mongo.Client
	db     *mongo.Database
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewMongoExporter creates a new MongoDB export backend.
func NewMongoExporter(uri, database string, logger *slog.Logger) (*MongoExporter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoExporter{
		client: client,
		db:     client.Database(database),
		logger: logger.With("component", "mongo_exporter"),
	}, nil
}

func (e *MongoExporter) Name() string { return "mongodb" }

func (e *MongoExporter) Export(out *RunOutput) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.insert("products", toDocs(out.Products)); err != nil {
		return err
	}
	if err := e.insert("detailed_products", toDocs(out.DetailedProducts)); err != nil {
		return err
	}
	if err := e.insert("categories", toDocs(out.Categories)); err != nil {
		return err
	}
	if err := e.insert("errors", toDocs(out.Errors)); err != nil {
		return err
	}
	if out.Summary != nil {
		if err := e.insert("summary", []any{out.Summary}); err != nil {
			return err
		}
	}

	e.logger.Debug("run output stored in mongodb", "total_docs", e.count)
	return nil
}

func (e *MongoExporter) insert(collection string, docs []any) error {
	if len(docs) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := e.db.Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("mongodb insert %s: %w", collection, err)
	}

	e.count += len(docs)
	return nil
}

func toDocs[T any](items []T) []any {
	docs := make([]any, len(items))
	for i, item := range items {
		docs[i] = item
	}
	return docs
}

func (e *MongoExporter) Close() error {
	e.logger.Info("mongodb exporter closing", "total_docs", e.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.client.Disconnect(ctx)
}

// --- Multi-Exporter Fan-Out ---

// MultiExporter writes run output to multiple backends simultaneously.
type MultiExporter struct {
	backends []Exporter
	logger   *slog.Logger
}

// NewMultiExporter creates an exporter that fans out to multiple backends.
func NewMultiExporter(backends []Exporter, logger *slog.Logger) *MultiExporter {
	return &MultiExporter{
		backends: backends,
		logger:   logger.With("component", "multi_exporter"),
	}
}

func (e *MultiExporter) Name() string { return "multi" }

func (e *MultiExporter) Export(out *RunOutput) error {
	var firstErr error
	for _, backend := range e.backends {
		if err := backend.Export(out); err != nil {
			e.logger.Error("backend export failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (e *MultiExporter) Close() error {
	var firstErr error
	for _, backend := range e.backends {
		if err := backend.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
