// internal/repository/store.go
package repository

import (
	"context"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// Store is the read-only source of sales history, stock levels and vendor
// metadata. Lookups that find nothing return found=false, not an error.
type Store interface {
	SalesHistory(ctx context.Context, product string) ([]domain.SalesRecord, error)
	CurrentStock(ctx context.Context, product string) (float64, bool, error)
	ProductInfo(ctx context.Context, product string) (*domain.ProductInfo, bool, error)
	Catalog(ctx context.Context) ([]string, error)
}
