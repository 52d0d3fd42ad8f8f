package analysis

import (
	"strings"
	"time"

	"github.com/nconklindev/sheetscope/internal/types"
)

const (
	// DateRatioThreshold and NumericRatioThreshold are exclusive lower bounds.
	DateRatioThreshold    = 0.6
	NumericRatioThreshold = 0.6
	MaxCategories         = 20
)

// dateLayouts are tried in order. Bare integers are absent so a
// column of plain numbers is never taken for dates.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02",
	"2006/01/02 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/06",
	"1/2/06 15:04",
	"01-02-06",
	"01-02-2006",
	"02-Jan-2006",
	"02-Jan-06",
	"2 Jan 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
}

// IsDate reports whether s parses as a calendar date in one of the known layouts.
func IsDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// IsNumeric reports whether the cell holds or parses as a finite number.
func IsNumeric(c types.Cell) bool {
	_, ok := c.Number()
	return ok
}

// ClassifyColumn labels one column from its values. Absent and blank values
// are ignored. The numeric and date tests are independent, so a value may
// count toward both ratios; date wins when both pass.
func ClassifyColumn(values []types.Cell) types.ColumnType {
	total, numeric, dates := 0, 0, 0
	distinct := make(map[string]struct{})

	for _, v := range values {
		if v.IsAbsent() {
			continue
		}
		text := strings.TrimSpace(v.String())
		if text == "" {
			continue
		}
		total++
		if IsNumeric(v) {
			numeric++
		}
		if IsDate(text) {
			dates++
		}
		distinct[text] = struct{}{}
	}

	if total == 0 {
		return types.ColumnUnknown
	}

	dateRatio := float64(dates) / float64(total)
	numericRatio := float64(numeric) / float64(total)

	switch {
	case dateRatio > DateRatioThreshold:
		return types.ColumnDate
	case numericRatio > NumericRatioThreshold:
		return types.ColumnNumeric
	case len(distinct) <= min(MaxCategories, total):
		return types.ColumnCategorical
	}
	return types.ColumnUnknown
}

// ClassifySheet labels every column of the sheet independently.
func ClassifySheet(sheet types.Sheet) []types.ColumnType {
	out := make([]types.ColumnType, len(sheet.Headers))
	for i := range sheet.Headers {
		out[i] = ClassifyColumn(sheet.Column(i))
	}
	return out
}
