package analysis

import (
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/core"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
)

// RowIndexAxis is the resolved column name for an axis that fell back
// to the 1-based row index.
const RowIndexAxis = "__row_index__"

// scatter emits one {x,y} point per row. Axes resolve to the explicit
// columns, else the first two distinct numeric columns, else the row
// index for whichever axis lacks a column. Both axes collapsing to the
// row index is an error.
func (e *Executor) scatter(t table.CanonicalTable, p plan.AnalysisPlan) ([]plan.AggregatedRow, plan.Resolved, error) {
	xCol, yCol := e.resolveAxes(t, p.XValueColumn, p.YValueColumn)
	if xCol == RowIndexAxis && yCol == RowIndexAxis {
		return nil, plan.Resolved{}, core.ErrScatterAxesUnresolved
	}

	rows := make([]plan.AggregatedRow, 0, t.Len())
	for i, rec := range t.Records {
		x, ok := axisValue(rec, xCol, i)
		if !ok {
			continue
		}
		y, ok := axisValue(rec, yCol, i)
		if !ok {
			continue
		}
		rows = append(rows, plan.AggregatedRow{"x": x, "y": y})
	}

	resolved := plan.Resolved{AnalysisPlan: p, ValueField: "y"}
	resolved.XValueColumn = xCol
	resolved.YValueColumn = yCol
	return rows, resolved, nil
}

// resolveAxes fills missing or non-numeric axis columns from the
// auto-inferred numeric columns, falling back to the row index.
func (e *Executor) resolveAxes(t table.CanonicalTable, x, y string) (string, string) {
	numeric := e.numericColumns(t)

	if x != "" && !t.HasColumn(x) {
		x = ""
	}
	if y != "" && !t.HasColumn(y) {
		y = ""
	}

	for _, col := range numeric {
		if x == "" && col != y {
			x = col
			continue
		}
		if y == "" && col != x {
			y = col
		}
	}
	if x == "" {
		x = RowIndexAxis
	}
	if y == "" {
		y = RowIndexAxis
	}
	return x, y
}

// axisValue resolves one axis for one record. Row-index axes always
// yield; column axes yield only when the cell parses numerically.
func axisValue(rec table.Record, col string, rowIdx int) (float64, bool) {
	if col == RowIndexAxis {
		return float64(rowIdx + 1), true
	}
	return numtoken.ParseNumber(rec[col])
}
