package scaler

import (
	"fmt"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// Adapter normalizes sales windows per product. It is immutable once built
// and safe for concurrent use.
type Adapter struct {
	scalers map[string]*Scaler
}

// NewAdapter copies scalers into a new Adapter.
func NewAdapter(scalers map[string]*Scaler) *Adapter {
	m := make(map[string]*Scaler, len(scalers))
	for product, s := range scalers {
		if s != nil {
			m[product] = s
		}
	}
	return &Adapter{scalers: m}
}

// Has reports whether a scaler was loaded for product.
func (a *Adapter) Has(product string) bool {
	_, ok := a.scalers[product]
	return ok
}

// Normalize maps a raw sales window into model input space.
func (a *Adapter) Normalize(product string, raw []float64) ([]float64, error) {
	s, err := a.lookup(product)
	if err != nil {
		return nil, err
	}
	return s.Transform(raw), nil
}

// Denormalize maps model output back to units.
func (a *Adapter) Denormalize(product string, scaled []float64) ([]float64, error) {
	s, err := a.lookup(product)
	if err != nil {
		return nil, err
	}
	return s.InverseTransform(scaled), nil
}

func (a *Adapter) lookup(product string) (*Scaler, error) {
	s, ok := a.scalers[product]
	if !ok {
		return nil, fmt.Errorf("scaler for %s: %w", product, domain.ErrArtifactMissing)
	}
	return s, nil
}
