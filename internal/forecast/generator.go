package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/andresuchdata/stockcast/internal/artifact"
	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/metrics"
	"github.com/andresuchdata/stockcast/internal/repository"
	"github.com/rs/zerolog/log"
)

// Generator turns a product's recent sales into a demand forecast.
type Generator struct {
	store    repository.Store
	registry *artifact.Registry
	cache    cache.ForecastCache
	metrics  *metrics.Recorder
}

func NewGenerator(store repository.Store, registry *artifact.Registry, cacheImpl cache.ForecastCache, recorder *metrics.Recorder) *Generator {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopForecastCache()
	}
	return &Generator{
		store:    store,
		registry: registry,
		cache:    cacheImpl,
		metrics:  recorder,
	}
}

// Forecast predicts daily demand for the days following the product's last
// recorded sale.
func (g *Generator) Forecast(ctx context.Context, product string) (result domain.ForecastResult, err error) {
	start := time.Now()
	defer func() {
		g.metrics.ObserveForecast(product, time.Since(start), err)
	}()

	mdl, err := g.registry.Model(product)
	if err != nil {
		return domain.ForecastResult{}, err
	}

	records, err := g.store.SalesHistory(ctx, product)
	if err != nil {
		return domain.ForecastResult{}, err
	}

	window, lastDate, err := RecentWindow(records, domain.HistoryWindowDays)
	if err != nil {
		return domain.ForecastResult{}, fmt.Errorf("%s: %w", product, err)
	}

	result = domain.ForecastResult{
		Product:   product,
		StartDate: lastDate.AddDate(0, 0, 1),
	}

	cacheKey := cache.ForecastKey{
		Product:      product,
		ModelVersion: g.registry.Fingerprint(product),
		Window:       window,
	}
	if cached, ok, err := g.cache.Get(ctx, cacheKey); err == nil && ok {
		result.Values = cached
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Str("product", product).Msg("forecast: cache get failed")
	}

	scalers := g.registry.Scalers()
	scaled, err := scalers.Normalize(product, window)
	if err != nil {
		return domain.ForecastResult{}, err
	}

	predicted, err := mdl.Predict(ctx, scaled)
	if err != nil {
		return domain.ForecastResult{}, fmt.Errorf("model prediction for %s failed: %w", product, err)
	}

	values, err := scalers.Denormalize(product, predicted)
	if err != nil {
		return domain.ForecastResult{}, err
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.ForecastResult{}, fmt.Errorf("model produced non-finite demand for %s on day %d", product, i+1)
		}
		if v < 0 {
			values[i] = 0
		}
	}
	result.Values = values

	if err := g.cache.Set(ctx, cacheKey, values); err != nil {
		log.Warn().Err(err).Str("product", product).Msg("forecast: cache set failed")
	}

	return result, nil
}
