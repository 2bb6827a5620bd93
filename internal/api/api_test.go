package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/metrics"
	"github.com/andresuchdata/stockcast/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct{}

var stubStock = map[string]float64{"Product_1": 50, "Product_2": 5}

func (stubStore) SalesHistory(context.Context, string) ([]domain.SalesRecord, error) { return nil, nil }

func (stubStore) CurrentStock(_ context.Context, product string) (float64, bool, error) {
	v, ok := stubStock[product]
	return v, ok, nil
}

func (stubStore) ProductInfo(_ context.Context, product string) (*domain.ProductInfo, bool, error) {
	if product != "Product_1" && product != "Product_2" {
		return nil, false, nil
	}
	return &domain.ProductInfo{Product: product, VendorName: "Acme", VendorEmail: "orders@acme.test"}, true, nil
}

func (stubStore) Catalog(context.Context) ([]string, error) {
	return []string{"Product_1", "Product_2", "Product_3"}, nil
}

type stubForecaster struct{}

func (stubForecaster) Forecast(_ context.Context, product string) (domain.ForecastResult, error) {
	switch product {
	case "Product_1":
		return domain.ForecastResult{Product: product, Values: []float64{4, 5, 6, 7, 8, 9, 10, 11, 12, 13}}, nil
	case "Product_2":
		return domain.ForecastResult{}, fmt.Errorf("Product_2: %w", domain.ErrInsufficientHistory)
	default:
		return domain.ForecastResult{}, fmt.Errorf("model for %s: %w", product, domain.ErrArtifactMissing)
	}
}

type stubNotifier struct{ err error }

func (stubNotifier) Channel() string { return "email" }

func (n stubNotifier) Send(context.Context, domain.ReorderRequest) error { return n.err }

func newTestRouter(t *testing.T, notifyErr error) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	svc := service.NewReplenishmentService(stubStore{}, stubForecaster{}, stubNotifier{err: notifyErr}, service.Options{
		Metrics: metrics.New(reg),
	})
	return NewRouter(&Services{Replenishment: svc}, nil, reg)
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatusEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodPost, "/api/v1/status", `{"product":"Product_1","days":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, key := range []string{"forecast", "current_stock", "days_covered", "reorder_in_days", "alert", "lead_time", "alert_text", "quantity_needed", "suggested_quantity"} {
		assert.Contains(t, body, key)
	}
	assert.Len(t, body, 9)
	assert.Equal(t, 15.0, body["quantity_needed"])
	assert.Equal(t, 7.0, body["days_covered"])
	assert.Equal(t, true, body["alert"])
	assert.Equal(t, "Reorder Required! You have only 7 days of stock left.", body["alert_text"])
}

func TestStatusEndpointUnparseableDays(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, days := range []string{`"abc"`, `null`, `[1]`, `-2`} {
		w := doJSON(t, r, http.MethodPost, "/api/v1/status", `{"product":"Product_1","days":`+days+`}`)
		require.Equal(t, http.StatusOK, w.Code, days)
		var body domain.DecisionPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 0, body.QuantityNeeded, days)
	}

	w := doJSON(t, r, http.MethodPost, "/api/v1/status", `{"product":"Product_1","days":"4"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity_needed":22`)
}

func TestStatusEndpointErrors(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		body string
		code int
	}{
		{`{"days":3}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
		{`{"product":"Product_3"}`, http.StatusNotFound},
		{`{"product":"Product_2"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		w := doJSON(t, r, http.MethodPost, "/api/v1/status", tt.body)
		assert.Equal(t, tt.code, w.Code, tt.body)
		assert.Contains(t, w.Body.String(), `"error"`, tt.body)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/overview", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []domain.ProductSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Product_1", body.Data[0].Product)
	assert.Equal(t, domain.LabelReorderNow, body.Data[0].AlertText)
}

func TestProductsEndpoint(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":["Product_1","Product_2","Product_3"]}`, w.Body.String())
}

func TestReorderEndpoint(t *testing.T) {
	w := doJSON(t, newTestRouter(t, nil), http.MethodPost, "/api/v1/reorders", `{"product":"Product_1","quantity":40}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Email sent successfully."}`, w.Body.String())

	w = doJSON(t, newTestRouter(t, nil), http.MethodPost, "/api/v1/reorders", `{"product":"Product_1","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, newTestRouter(t, nil), http.MethodPost, "/api/v1/reorders", `{"product":"Product_9","quantity":3}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, newTestRouter(t, errors.New("smtp timeout")), http.MethodPost, "/api/v1/reorders", `{"product":"Product_1","quantity":3}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"smtp timeout"}`, w.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t, nil)

	w := doJSON(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	doJSON(t, r, http.MethodPost, "/api/v1/status", `{"product":"Product_1"}`)
	w = doJSON(t, r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "stockcast_replenishment_decisions_total"))
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"https://a.test, https://b.test", " "})
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, origins)
	assert.False(t, all)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
