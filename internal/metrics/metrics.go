package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes replenishment metrics. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	forecastLatency *prometheus.HistogramVec
	forecastErrors  *prometheus.CounterVec
	decisions       *prometheus.CounterVec
	daysCovered     *prometheus.GaugeVec
	overviewSkips   *prometheus.CounterVec
	notifications   *prometheus.CounterVec
}

// New registers the recorder's collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		forecastLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stockcast",
				Subsystem: "forecast",
				Name:      "duration_seconds",
				Help:      "Duration of forecast generation per product",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"product"},
		),
		forecastErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockcast",
				Subsystem: "forecast",
				Name:      "errors_total",
				Help:      "Forecast failures by product",
			},
			[]string{"product"},
		),
		decisions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockcast",
				Subsystem: "replenishment",
				Name:      "decisions_total",
				Help:      "Replenishment decisions by product and alert state",
			},
			[]string{"product", "alert"},
		),
		daysCovered: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "stockcast",
				Subsystem: "replenishment",
				Name:      "days_covered",
				Help:      "Most recent days of stock coverage per product",
			},
			[]string{"product"},
		),
		overviewSkips: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockcast",
				Subsystem: "overview",
				Name:      "skipped_total",
				Help:      "Products left out of the overview by reason",
			},
			[]string{"reason"},
		),
		notifications: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockcast",
				Subsystem: "notify",
				Name:      "sent_total",
				Help:      "Reorder notifications by channel and result",
			},
			[]string{"channel", "result"},
		),
	}
}

// ObserveForecast records one forecast attempt.
func (r *Recorder) ObserveForecast(product string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.forecastLatency.WithLabelValues(product).Observe(d.Seconds())
	if err != nil {
		r.forecastErrors.WithLabelValues(product).Inc()
	}
}

// RecordDecision records a computed decision.
func (r *Recorder) RecordDecision(product string, alert bool, daysCovered int) {
	if r == nil {
		return
	}
	label := "false"
	if alert {
		label = "true"
	}
	r.decisions.WithLabelValues(product, label).Inc()
	r.daysCovered.WithLabelValues(product).Set(float64(daysCovered))
}

// RecordOverviewSkip records a product omitted from the overview.
func (r *Recorder) RecordOverviewSkip(reason string) {
	if r == nil {
		return
	}
	r.overviewSkips.WithLabelValues(reason).Inc()
}

// RecordNotification records a reorder notification outcome.
func (r *Recorder) RecordNotification(channel string, err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	r.notifications.WithLabelValues(channel, result).Inc()
}
