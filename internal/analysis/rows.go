package analysis

import (
	"slices"
	"strings"

	"github.com/nconklindev/sheetscope/internal/types"
)

// Filter keeps rows where any cell contains query, ignoring case. An empty
// query returns rows unchanged.
func Filter(rows [][]types.Cell, query string) [][]types.Cell {
	if query == "" {
		return rows
	}
	q := strings.ToLower(query)

	out := make([][]types.Cell, 0, len(rows))
	for _, row := range rows {
		if rowMatches(row, q) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row []types.Cell, lowered string) bool {
	for _, c := range row {
		if strings.Contains(strings.ToLower(c.String()), lowered) {
			return true
		}
	}
	return false
}

// Sort returns a stably sorted copy of rows. Inactive keys return rows as-is.
//
// Pairs where both values are numeric compare numerically and everything else
// compares as case-insensitive text, so a mixed column is not a strict total
// order.
func Sort(rows [][]types.Cell, key types.SortKey) [][]types.Cell {
	if !key.Active() {
		return rows
	}

	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b []types.Cell) int {
		c := CompareCells(cellAt(a, key.Column), cellAt(b, key.Column))
		if key.Direction == types.SortDescending {
			return -c
		}
		return c
	})
	return out
}

// CompareCells orders cells ascending: absent first, then numeric when both
// sides parse as numbers, then case-insensitive text.
func CompareCells(a, b types.Cell) int {
	switch {
	case a.IsAbsent() && b.IsAbsent():
		return 0
	case a.IsAbsent():
		return -1
	case b.IsAbsent():
		return 1
	}

	if an, ok := a.Number(); ok {
		if bn, ok := b.Number(); ok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(strings.ToLower(a.String()), strings.ToLower(b.String()))
}

func cellAt(row []types.Cell, i int) types.Cell {
	if i < 0 || i >= len(row) {
		return types.Absent
	}
	return row[i]
}

// Process filters then sorts. The full result is returned; truncation for
// display is the caller's concern.
func Process(rows [][]types.Cell, query string, key types.SortKey) [][]types.Cell {
	return Sort(Filter(rows, query), key)
}
