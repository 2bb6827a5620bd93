package replenishment

import (
	"fmt"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/shopspring/decimal"
)

// Alert messages.
const (
	sufficientText = "Stock is Sufficient. No Reorder Required."
	reorderTextFmt = "Reorder Required! You have only %d days of stock left."
)

// DecisionInput is everything needed to decide on a reorder for one product.
type DecisionInput struct {
	CurrentStock float64
	Forecast     []float64
	LeadTime     int
	Horizon      Horizon
}

// Decide computes coverage, alert state and reorder quantities.
func Decide(in DecisionInput) domain.DecisionPayload {
	// 1. Whole forecast days the current stock can meet
	daysCovered := DaysCovered(in.CurrentStock, in.Forecast)

	// 2. Reorder is due once coverage no longer exceeds the lead time
	alert := IsAlert(daysCovered, in.LeadTime)

	// 3. Slack before the order has to be placed
	reorderIn := daysCovered - in.LeadTime
	if reorderIn < 0 {
		reorderIn = 0
	}

	// 4. Optional quantity for the requested number of days
	quantityNeeded := 0
	if in.Horizon.Valid {
		quantityNeeded = QuantityForDays(in.Forecast, in.Horizon.Days)
	}

	forecast := in.Forecast
	if forecast == nil {
		forecast = []float64{}
	}

	return domain.DecisionPayload{
		Forecast:          forecast,
		CurrentStock:      int(in.CurrentStock),
		DaysCovered:       daysCovered,
		ReorderInDays:     reorderIn,
		Alert:             alert,
		LeadTime:          in.LeadTime,
		AlertText:         AlertText(alert, daysCovered),
		QuantityNeeded:    quantityNeeded,
		SuggestedQuantity: SuggestedQuantity(in.Forecast, in.LeadTime),
	}
}

// IsAlert reports whether a reorder is due.
func IsAlert(daysCovered, leadTime int) bool {
	return daysCovered <= leadTime
}

// AlertText is the human-readable message for a decision.
func AlertText(alert bool, daysCovered int) string {
	if !alert {
		return sufficientText
	}
	return fmt.Sprintf(reorderTextFmt, daysCovered)
}

// OverviewLabel is the two-state label used in the fleet-wide view.
func OverviewLabel(alert bool) string {
	if alert {
		return domain.LabelReorderNow
	}
	return domain.LabelStockSufficient
}

// SuggestedQuantity covers demand through the lead time plus one buffer
// day: the first leadTime+1 forecast values, summed and truncated.
func SuggestedQuantity(forecast []float64, leadTime int) int {
	return truncatedSum(forecast, leadTime+1)
}

// QuantityForDays is the truncated demand over the first days forecast values.
func QuantityForDays(forecast []float64, days int) int {
	return truncatedSum(forecast, days)
}

// truncatedSum adds the first n values (clamped to the slice) exactly and
// drops the fractional part.
func truncatedSum(values []float64, n int) int {
	if n <= 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}

	total := decimal.Zero
	for _, v := range values[:n] {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return int(total.IntPart())
}
