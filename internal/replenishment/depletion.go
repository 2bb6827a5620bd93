package replenishment

// DaysCovered walks the forecast in order, subtracting each day's demand
// while the remaining stock can meet it in full. A day whose demand equals
// the remaining stock counts as covered; the first day that cannot be met
// ends the walk and earns no partial credit.
func DaysCovered(stock float64, forecast []float64) int {
	days := 0
	remaining := stock
	for _, demand := range forecast {
		if remaining < demand {
			break
		}
		remaining -= demand
		days++
	}
	return days
}
