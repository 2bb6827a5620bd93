// internal/domain/replenishment.go
package domain

import "time"

// DefaultLeadTimeDays applies when a product has no explicit vendor lead time.
const DefaultLeadTimeDays = 7

// HistoryWindowDays is the number of most recent sales days fed to a model.
const HistoryWindowDays = 60

// SalesRecord is one row of a product's sales history. UnitsSold is nil when
// the source value was missing or not numeric.
type SalesRecord struct {
	Date      time.Time `json:"date" db:"sale_date"`
	UnitsSold *float64  `json:"units_sold" db:"units_sold"`
}

// ForecastResult holds predicted daily demand, Values[0] being the day after
// the last historical date.
type ForecastResult struct {
	Product   string    `json:"product"`
	StartDate time.Time `json:"start_date"`
	Values    []float64 `json:"values"`
}

// Horizon is the number of forecast days.
func (f ForecastResult) Horizon() int {
	return len(f.Values)
}

// InventoryRecord is the on-hand stock of a product.
type InventoryRecord struct {
	Product      string  `json:"product" db:"product_id"`
	CurrentStock float64 `json:"current_stock" db:"current_stock"`
}

// ProductInfo carries vendor metadata for a product.
type ProductInfo struct {
	Product      string `json:"product" db:"product_id"`
	VendorName   string `json:"vendor_name" db:"vendor_name"`
	VendorEmail  string `json:"vendor_email" db:"vendor_email"`
	LeadTimeDays *int   `json:"lead_time_days,omitempty" db:"lead_time_days"`
}

// LeadTime returns the explicit lead time, or def when none is set.
func (p ProductInfo) LeadTime(def int) int {
	if p.LeadTimeDays == nil {
		return def
	}
	return *p.LeadTimeDays
}

// DecisionPayload is the replenishment decision for a single product.
type DecisionPayload struct {
	Forecast          []float64 `json:"forecast"`
	CurrentStock      int       `json:"current_stock"`
	DaysCovered       int       `json:"days_covered"`
	ReorderInDays     int       `json:"reorder_in_days"`
	Alert             bool      `json:"alert"`
	LeadTime          int       `json:"lead_time"`
	AlertText         string    `json:"alert_text"`
	QuantityNeeded    int       `json:"quantity_needed"`
	SuggestedQuantity int       `json:"suggested_quantity"`
}

// Overview alert labels.
const (
	LabelReorderNow      = "Reorder Now"
	LabelStockSufficient = "Stock is Sufficient"
)

// ProductSummary is one row of the fleet-wide status view.
type ProductSummary struct {
	Product      string `json:"product"`
	CurrentStock int    `json:"current_stock"`
	DaysCovered  int    `json:"days_covered"`
	LeadTime     int    `json:"lead_time"`
	Alert        bool   `json:"alert"`
	AlertText    string `json:"alert_text"`
	StockoutDate string `json:"stockout_date"`
}

// ReorderRequest is what gets sent to a vendor when stock is reordered.
type ReorderRequest struct {
	Product              string `json:"product"`
	Quantity             int    `json:"quantity"`
	VendorName           string `json:"vendor_name"`
	VendorEmail          string `json:"vendor_email"`
	ExpectedDeliveryDate string `json:"expected_delivery_date"`
}

// NotificationResult reports the outcome of a reorder notification.
type NotificationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
