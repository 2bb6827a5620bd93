package forecast

import (
	"fmt"
	"sort"
	"time"

	"github.com/andresuchdata/stockcast/internal/domain"
)

// RecentWindow drops records without a usable units value, orders the rest
// by date and returns the last size values together with the date of the
// most recent one.
func RecentWindow(records []domain.SalesRecord, size int) ([]float64, time.Time, error) {
	valid := make([]domain.SalesRecord, 0, len(records))
	for _, r := range records {
		if r.UnitsSold != nil {
			valid = append(valid, r)
		}
	}
	if len(valid) < size {
		return nil, time.Time{}, fmt.Errorf("only %d usable rows, need %d: %w", len(valid), size, domain.ErrInsufficientHistory)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Date.Before(valid[j].Date)
	})

	tail := valid[len(valid)-size:]
	window := make([]float64, size)
	for i, r := range tail {
		window[i] = *r.UnitsSold
	}
	return window, tail[len(tail)-1].Date, nil
}
