package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.ObserveForecast("Product_1", 20*time.Millisecond, nil)
	r.ObserveForecast("Product_1", 5*time.Millisecond, errors.New("boom"))
	r.RecordDecision("Product_1", true, 4)
	r.RecordDecision("Product_1", false, 12)
	r.RecordOverviewSkip("no_inventory")
	r.RecordOverviewSkip("no_inventory")
	r.RecordNotification("email", nil)
	r.RecordNotification("email", errors.New("smtp down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.forecastErrors.WithLabelValues("Product_1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.decisions.WithLabelValues("Product_1", "true")))
	assert.Equal(t, 12.0, testutil.ToFloat64(r.daysCovered.WithLabelValues("Product_1")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.overviewSkips.WithLabelValues("no_inventory")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notifications.WithLabelValues("email", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.notifications.WithLabelValues("email", "success")))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveForecast("Product_1", time.Second, nil)
		r.RecordDecision("Product_1", true, 0)
		r.RecordOverviewSkip("forecast_failed")
		r.RecordNotification("kafka", nil)
	})
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
