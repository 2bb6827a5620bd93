package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/andresuchdata/stockcast/internal/artifact"
	"github.com/andresuchdata/stockcast/internal/cache"
	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/model"
	"github.com/andresuchdata/stockcast/internal/scaler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type historyStore struct {
	history map[string][]domain.SalesRecord
	err     error
}

func (s *historyStore) SalesHistory(_ context.Context, product string) ([]domain.SalesRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history[product], nil
}

func (s *historyStore) CurrentStock(context.Context, string) (float64, bool, error) {
	return 0, false, nil
}

func (s *historyStore) ProductInfo(context.Context, string) (*domain.ProductInfo, bool, error) {
	return nil, false, nil
}

func (s *historyStore) Catalog(context.Context) ([]string, error) { return nil, nil }

type countingModel struct {
	model.SequenceModel
	calls int
}

func (m *countingModel) Predict(ctx context.Context, window []float64) ([]float64, error) {
	m.calls++
	return m.SequenceModel.Predict(ctx, window)
}

// mapCache ignores the window; tests vary only product and model.
type mapCache struct {
	values map[string][]float64
	sets   int
}

func (c *mapCache) Get(_ context.Context, key cache.ForecastKey) ([]float64, bool, error) {
	v, ok := c.values[key.Product+"|"+key.ModelVersion]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key cache.ForecastKey, forecast []float64) error {
	c.sets++
	c.values[key.Product+"|"+key.ModelVersion] = forecast
	return nil
}

func (c *mapCache) InvalidateAll(context.Context) error { return nil }

// averagingModel predicts the window mean for each of its outputs, shifted by bias.
func averagingModel(t *testing.T, bias []float64) model.SequenceModel {
	t.Helper()
	weights := make([][]float64, len(bias))
	for h := range weights {
		row := make([]float64, domain.HistoryWindowDays)
		for i := range row {
			row[i] = 1.0 / float64(domain.HistoryWindowDays)
		}
		weights[h] = row
	}
	m, err := model.NewDense(model.Artifact{InputSize: domain.HistoryWindowDays, Weights: weights, Bias: bias})
	require.NoError(t, err)
	return m
}

func flatHistory(n int, value float64) []domain.SalesRecord {
	records := make([]domain.SalesRecord, n)
	for i := range records {
		records[i] = domain.SalesRecord{Date: day(i), UnitsSold: units(value)}
	}
	return records
}

func newRegistry(t *testing.T, product string, mdl model.SequenceModel) *artifact.Registry {
	t.Helper()
	sc, err := scaler.New(scaler.Artifact{Kind: scaler.KindMinMax, DataMin: []float64{0}, DataMax: []float64{100}})
	require.NoError(t, err)
	return artifact.NewRegistry(
		map[string]model.SequenceModel{product: mdl},
		map[string]*scaler.Scaler{product: sc},
	)
}

func TestForecast(t *testing.T) {
	store := &historyStore{history: map[string][]domain.SalesRecord{"Product_1": flatHistory(75, 12)}}
	// third output is pushed below zero in scaled space and must be clamped
	reg := newRegistry(t, "Product_1", averagingModel(t, []float64{0, 0.05, -1}))

	g := NewGenerator(store, reg, nil, nil)
	got, err := g.Forecast(context.Background(), "Product_1")
	require.NoError(t, err)

	assert.Equal(t, "Product_1", got.Product)
	assert.Equal(t, day(75), got.StartDate)
	require.Equal(t, 3, got.Horizon())
	assert.InDelta(t, 12, got.Values[0], 1e-9)
	assert.InDelta(t, 17, got.Values[1], 1e-9)
	assert.Equal(t, 0.0, got.Values[2])
}

func TestForecastErrors(t *testing.T) {
	reg := newRegistry(t, "Product_1", averagingModel(t, []float64{0}))

	t.Run("artifact missing", func(t *testing.T) {
		g := NewGenerator(&historyStore{}, reg, nil, nil)
		_, err := g.Forecast(context.Background(), "Product_2")
		assert.ErrorIs(t, err, domain.ErrArtifactMissing)
	})

	t.Run("insufficient history", func(t *testing.T) {
		store := &historyStore{history: map[string][]domain.SalesRecord{"Product_1": flatHistory(59, 3)}}
		_, err := NewGenerator(store, reg, nil, nil).Forecast(context.Background(), "Product_1")
		assert.ErrorIs(t, err, domain.ErrInsufficientHistory)
	})

	t.Run("store failure", func(t *testing.T) {
		boom := errors.New("workbook locked")
		_, err := NewGenerator(&historyStore{err: boom}, reg, nil, nil).Forecast(context.Background(), "Product_1")
		assert.ErrorIs(t, err, boom)
	})
}

func TestForecastUsesCache(t *testing.T) {
	store := &historyStore{history: map[string][]domain.SalesRecord{"Product_1": flatHistory(60, 5)}}
	mdl := &countingModel{SequenceModel: averagingModel(t, []float64{0, 0})}
	c := &mapCache{values: map[string][]float64{}}
	g := NewGenerator(store, newRegistry(t, "Product_1", mdl), c, nil)

	first, err := g.Forecast(context.Background(), "Product_1")
	require.NoError(t, err)
	second, err := g.Forecast(context.Background(), "Product_1")
	require.NoError(t, err)

	assert.Equal(t, 1, mdl.calls)
	assert.Equal(t, 1, c.sets)
	assert.Equal(t, first.Values, second.Values)
	assert.Equal(t, first.StartDate, second.StartDate)
}

func writeArtifacts(t *testing.T, dir, product string, bias float64) {
	t.Helper()
	row := make([]float64, domain.HistoryWindowDays)
	for i := range row {
		row[i] = 1.0 / float64(domain.HistoryWindowDays)
	}
	mdl, err := json.Marshal(model.Artifact{InputSize: domain.HistoryWindowDays, Weights: [][]float64{row}, Bias: []float64{bias}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(artifact.ModelPath(dir, product), mdl, 0o644))
	require.NoError(t, os.WriteFile(artifact.ScalerPath(dir, product), []byte(`{"kind":"minmax","data_min":[0],"data_max":[100]}`), 0o644))
}

func TestForecastCacheMissesAfterArtifactChange(t *testing.T) {
	store := &historyStore{history: map[string][]domain.SalesRecord{"Product_1": flatHistory(60, 10)}}
	shared := &mapCache{values: map[string][]float64{}}
	dir := t.TempDir()

	writeArtifacts(t, dir, "Product_1", 0)
	before, err := NewGenerator(store, artifact.LoadDir(dir, []string{"Product_1"}), shared, nil).Forecast(context.Background(), "Product_1")
	require.NoError(t, err)
	assert.InDelta(t, 10, before.Values[0], 1e-9)

	// retrained model synced over the old one, same sales window
	writeArtifacts(t, dir, "Product_1", 0.1)
	after, err := NewGenerator(store, artifact.LoadDir(dir, []string{"Product_1"}), shared, nil).Forecast(context.Background(), "Product_1")
	require.NoError(t, err)
	assert.InDelta(t, 20, after.Values[0], 1e-9)
	assert.Equal(t, 2, shared.sets)
}
