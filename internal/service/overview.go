package service

import (
	"context"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/replenishment"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SkipReason explains why a product is left out of the overview.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipNoInventory    SkipReason = "no_inventory"
	SkipNoProductInfo  SkipReason = "no_product_info"
	SkipLookupFailed   SkipReason = "lookup_failed"
	SkipForecastFailed SkipReason = "forecast_failed"
)

// productOutcome is either a summary or the reason there is none.
type productOutcome struct {
	summary *domain.ProductSummary
	skip    SkipReason
	err     error
}

// Overview evaluates every catalog product and returns the summaries of the
// ones that could be evaluated, in catalog order. A product that cannot be
// evaluated is skipped without affecting the others.
func (s *ReplenishmentService) Overview(ctx context.Context) ([]domain.ProductSummary, error) {
	catalog, err := s.store.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	outcomes := make([]productOutcome, len(catalog))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, product := range catalog {
		i, product := i, product
		g.Go(func() error {
			outcomes[i] = s.evaluate(gctx, product, today)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summaries := make([]domain.ProductSummary, 0, len(catalog))
	for i, outcome := range outcomes {
		if outcome.skip != SkipNone {
			s.metrics.RecordOverviewSkip(string(outcome.skip))
			log.Debug().
				Err(outcome.err).
				Str("product", catalog[i]).
				Str("reason", string(outcome.skip)).
				Msg("overview: product skipped")
			continue
		}
		summaries = append(summaries, *outcome.summary)
	}
	return summaries, nil
}

func (s *ReplenishmentService) evaluate(ctx context.Context, product string, today time.Time) productOutcome {
	stock, found, err := s.store.CurrentStock(ctx, product)
	if err != nil {
		return productOutcome{skip: SkipLookupFailed, err: err}
	}
	if !found {
		return productOutcome{skip: SkipNoInventory}
	}

	info, found, err := s.store.ProductInfo(ctx, product)
	if err != nil {
		return productOutcome{skip: SkipLookupFailed, err: err}
	}
	if !found {
		return productOutcome{skip: SkipNoProductInfo}
	}

	forecast, err := s.forecaster.Forecast(ctx, product)
	if err != nil {
		return productOutcome{skip: SkipForecastFailed, err: err}
	}

	leadTime := info.LeadTime(s.leadTimes.Default())
	daysCovered := replenishment.DaysCovered(stock, forecast.Values)
	alert := replenishment.IsAlert(daysCovered, leadTime)
	s.metrics.RecordDecision(product, alert, daysCovered)

	return productOutcome{summary: &domain.ProductSummary{
		Product:      product,
		CurrentStock: int(stock),
		DaysCovered:  daysCovered,
		LeadTime:     leadTime,
		Alert:        alert,
		AlertText:    replenishment.OverviewLabel(alert),
		StockoutDate: StockoutDate(today, daysCovered),
	}}
}

// StockoutDate is the calendar date daysCovered days after today.
func StockoutDate(today time.Time, daysCovered int) string {
	return today.AddDate(0, 0, daysCovered).Format(time.DateOnly)
}
