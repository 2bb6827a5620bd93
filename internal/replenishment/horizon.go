package replenishment

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Horizon is the outcome of parsing an optional "quantity for the next N
// days" input. Valid is false when the input was absent or unusable, in
// which case no quantity is computed.
type Horizon struct {
	Days  int
	Valid bool
}

// ParseHorizon accepts an integer-valued input as decoded from JSON or a
// query string: numbers are truncated toward zero, strings must hold a
// plain integer. Values beyond the int range are clamped to it. Anything
// else, and any result below one, yields an invalid Horizon.
func ParseHorizon(raw any) Horizon {
	var days int
	switch v := raw.(type) {
	case nil:
		return Horizon{}
	case int:
		days = v
	case int64:
		days = int(v)
	case float64:
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return Horizon{}
		case v >= math.MaxInt:
			days = math.MaxInt
		case v < 1:
			return Horizon{}
		default:
			days = int(v)
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if errors.Is(err, strconv.ErrRange) && n == math.MaxInt {
			n = math.MaxInt
		} else if err != nil {
			return Horizon{}
		}
		days = n
	default:
		return Horizon{}
	}

	if days < 1 {
		return Horizon{}
	}
	return Horizon{Days: days, Valid: true}
}
