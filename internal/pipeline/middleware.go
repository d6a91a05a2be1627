package pipeline

import (
	"strings"

	"github.com/vikiman365/scraper/internal/types"
)

// TrimMiddleware trims whitespace from the record's string fields.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(rec *types.ProductRecord) (*types.ProductRecord, error) {
	rec.Name = strings.TrimSpace(rec.Name)
	rec.SKU = strings.TrimSpace(rec.SKU)
	rec.Brand = strings.TrimSpace(rec.Brand)
	rec.Category = strings.TrimSpace(rec.Category)
	rec.Description = strings.TrimSpace(rec.Description)
	rec.AvailabilityText = strings.TrimSpace(rec.AvailabilityText)
	for i, f := range rec.Features {
		rec.Features[i] = strings.TrimSpace(f)
	}
	return rec, nil
}

// RequiredNameMiddleware drops records without a resolvable name.
type RequiredNameMiddleware struct{}

func (m *RequiredNameMiddleware) Name() string { return "required_name" }

func (m *RequiredNameMiddleware) Process(rec *types.ProductRecord) (*types.ProductRecord, error) {
	if rec.Name == "" {
		return nil, nil // drop
	}
	return rec, nil
}

// CurrencyDefaultMiddleware fills the currency when extraction left it
// empty.
type CurrencyDefaultMiddleware struct {
	Currency string
}

func (m *CurrencyDefaultMiddleware) Name() string { return "currency_default" }

func (m *CurrencyDefaultMiddleware) Process(rec *types.ProductRecord) (*types.ProductRecord, error) {
	if rec.Currency == "" {
		rec.Currency = m.Currency
	}
	return rec, nil
}
