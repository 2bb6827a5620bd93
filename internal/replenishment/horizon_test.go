package replenishment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHorizon(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want Horizon
	}{
		{"absent", nil, Horizon{}},
		{"int", 3, Horizon{Days: 3, Valid: true}},
		{"int64", int64(14), Horizon{Days: 14, Valid: true}},
		{"json number", float64(10), Horizon{Days: 10, Valid: true}},
		{"fraction truncates", 2.9, Horizon{Days: 2, Valid: true}},
		{"numeric string", "7", Horizon{Days: 7, Valid: true}},
		{"padded string", " 5 ", Horizon{Days: 5, Valid: true}},
		{"non numeric", "abc", Horizon{}},
		{"decimal string", "2.5", Horizon{}},
		{"empty string", "", Horizon{}},
		{"zero", 0, Horizon{}},
		{"negative", -4, Horizon{}},
		{"nan", math.NaN(), Horizon{}},
		{"bool", true, Horizon{}},
		{"list", []any{1}, Horizon{}},
		{"huge json number clamps", 3e9, Horizon{Days: 3000000000, Valid: true}},
		{"beyond int clamps", 1e300, Horizon{Days: math.MaxInt, Valid: true}},
		{"beyond int string clamps", "99999999999999999999", Horizon{Days: math.MaxInt, Valid: true}},
		{"beyond int negative string", "-99999999999999999999", Horizon{}},
		{"positive infinity", math.Inf(1), Horizon{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseHorizon(tt.raw))
		})
	}
}

func TestLargeHorizonSumsWholeForecast(t *testing.T) {
	forecast := []float64{4, 5, 6}
	for _, raw := range []any{3e9, "3000000000", 1e300} {
		h := ParseHorizon(raw)
		assert.True(t, h.Valid, "%v", raw)
		assert.Equal(t, 15, QuantityForDays(forecast, h.Days), "%v", raw)
	}
}
