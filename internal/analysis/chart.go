package analysis

import (
	"slices"
	"strings"

	"github.com/nconklindev/sheetscope/internal/types"
)

// DefaultTopN caps the number of bars in a chart.
const DefaultTopN = 25

// Aggregate sums valueCol per distinct categoryCol text and returns the groups
// ordered by sum, largest first. Rows with a blank category or a non-numeric
// value are skipped. Ties keep first-seen order; topN <= 0 keeps every group.
func Aggregate(rows [][]types.Cell, categoryCol, valueCol, topN int) []types.ChartRow {
	if categoryCol < 0 || valueCol < 0 {
		return nil
	}

	index := make(map[string]int)
	var out []types.ChartRow

	for _, row := range rows {
		if categoryCol >= len(row) || valueCol >= len(row) {
			continue
		}
		cat := row[categoryCol]
		if cat.IsAbsent() || strings.TrimSpace(cat.String()) == "" {
			continue
		}
		v, ok := row[valueCol].Number()
		if !ok {
			continue
		}

		key := cat.String()
		if i, seen := index[key]; seen {
			out[i].Value += v
			continue
		}
		index[key] = len(out)
		out = append(out, types.ChartRow{Category: key, Value: v})
	}

	slices.SortStableFunc(out, func(a, b types.ChartRow) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// DefaultAxes picks the first categorical column and the first numeric
// column. Either is -1 when no column qualifies.
func DefaultAxes(columnTypes []types.ColumnType) (category, value int) {
	category, value = -1, -1
	for i, t := range columnTypes {
		if category < 0 && t == types.ColumnCategorical {
			category = i
		}
		if value < 0 && t == types.ColumnNumeric {
			value = i
		}
	}
	return category, value
}
