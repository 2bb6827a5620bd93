package replenishment

import (
	"context"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/rs/zerolog/log"
)

// ProductInfoLookup is the subset of the store the resolver needs.
type ProductInfoLookup interface {
	ProductInfo(ctx context.Context, product string) (*domain.ProductInfo, bool, error)
}

// LeadTimeResolver returns vendor lead times, falling back to a default.
type LeadTimeResolver struct {
	info        ProductInfoLookup
	defaultDays int
}

// NewLeadTimeResolver uses domain.DefaultLeadTimeDays when defaultDays is not positive.
func NewLeadTimeResolver(info ProductInfoLookup, defaultDays int) *LeadTimeResolver {
	if defaultDays <= 0 {
		defaultDays = domain.DefaultLeadTimeDays
	}
	return &LeadTimeResolver{info: info, defaultDays: defaultDays}
}

// Default is the lead time applied to products without an explicit one.
func (r *LeadTimeResolver) Default() int {
	return r.defaultDays
}

// LeadTime never fails: lookup errors are logged and the default returned.
func (r *LeadTimeResolver) LeadTime(ctx context.Context, product string) int {
	info, found, err := r.info.ProductInfo(ctx, product)
	if err != nil {
		log.Warn().Err(err).Str("product", product).Msg("lead time: product info lookup failed, using default")
		return r.defaultDays
	}
	if !found {
		return r.defaultDays
	}
	return info.LeadTime(r.defaultDays)
}
