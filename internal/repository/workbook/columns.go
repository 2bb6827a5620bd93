package workbook

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// normalizeColumnName lowercases a header and folds separators so
// "Lead Time", "lead_time" and "LEAD-TIME" compare equal.
func normalizeColumnName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(n)
	return strings.Join(strings.Fields(n), " ")
}

// columnIndex returns the position of the first header matching any of names.
func columnIndex(header []string, names ...string) int {
	targets := make(map[string]struct{}, len(names))
	for _, name := range names {
		targets[normalizeColumnName(name)] = struct{}{}
	}
	for i, h := range header {
		if _, ok := targets[normalizeColumnName(h)]; ok {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseNumber parses a numeric cell. Blank, non-numeric and non-finite values
// are reported as not ok.
func parseNumber(raw string) (float64, bool) {
	v := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// isoLayouts are unambiguous and accepted regardless of the slash convention.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

var monthFirstLayouts = []string{
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
}

var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/06",
	"2/1/06 15:04",
	"02-01-06",
}

// excelEpoch is day zero of the 1900 date system as excelize reports raw serials.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts returns the layouts for one sheet. Only one slash convention
// is ever tried so every row of a sheet is read the same way.
func dateLayouts(dayFirst bool) []string {
	slashed := monthFirstLayouts
	if dayFirst {
		slashed = dayFirstLayouts
	}
	layouts := make([]string, 0, len(isoLayouts)+len(slashed))
	layouts = append(layouts, isoLayouts...)
	return append(layouts, slashed...)
}

// parseDate accepts the given layouts and raw Excel serial numbers.
func parseDate(raw string, layouts []string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 {
		days := math.Floor(serial)
		return excelEpoch.AddDate(0, 0, int(days)), true
	}
	return time.Time{}, false
}
