package analysis

import (
	"sort"
	"strings"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
)

// group accumulates one aggregation bucket.
type group struct {
	key    string
	sum    float64
	count  int
	parsed int
}

// aggregateChart runs the default bar/line/pie/doughnut path: group by
// key, aggregate, order chronologically when the keys look like time,
// else by value descending with Top-N/Others bucketing.
func (e *Executor) aggregateChart(t table.CanonicalTable, p plan.AnalysisPlan) ([]plan.AggregatedRow, plan.Resolved, error) {
	groups := aggregateBy(t, p.GroupByColumn, p.ValueColumn)
	valueField := resolveValueField(p)

	rows := make([]plan.AggregatedRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, plan.AggregatedRow{
			p.GroupByColumn: g.key,
			valueField:      g.value(p.Aggregation),
		})
	}

	family := e.detectAxisFamily(groups)
	if family != numtoken.FamilyNone {
		rows = sortChrono(rows, p.GroupByColumn, family)
	} else {
		sort.SliceStable(rows, func(i, j int) bool {
			a, _ := rows[i][valueField].(float64)
			b, _ := rows[j][valueField].(float64)
			return a > b
		})
		rows = topNOthers(rows, e.cfg.TopN, p.GroupByColumn, valueField)
	}

	resolved := plan.Resolved{AnalysisPlan: p, ValueField: valueField}
	e.logger.Debug("aggregated %d groups on %q (%s)", len(groups), p.GroupByColumn, p.Aggregation)
	return rows, resolved, nil
}

// aggregateBy buckets rows by the stringified group key, preserving
// first-seen order. Absent, "undefined" and "null" keys are dropped.
func aggregateBy(t table.CanonicalTable, groupBy, valueCol string) []group {
	index := make(map[string]int)
	var groups []group
	for _, rec := range t.Records {
		key := strings.TrimSpace(rec[groupBy])
		if key == "" || strings.EqualFold(key, "undefined") || strings.EqualFold(key, "null") {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].count++
		if valueCol != "" {
			if v, ok := numtoken.ParseNumber(rec[valueCol]); ok {
				groups[i].sum += v
				groups[i].parsed++
			}
		}
	}
	return groups
}

// value resolves the bucket's aggregate under the given function.
func (g group) value(agg plan.Aggregation) float64 {
	switch agg {
	case plan.AggCount:
		return float64(g.count)
	case plan.AggAvg:
		if g.parsed == 0 {
			return 0
		}
		return g.sum / float64(g.parsed)
	default:
		return g.sum
	}
}

// resolveValueField names the numeric output field: the value column
// when one is set, "count" for count aggregation, else "value".
func resolveValueField(p plan.AnalysisPlan) string {
	if p.Aggregation == plan.AggCount {
		return "count"
	}
	if p.ValueColumn != "" {
		return p.ValueColumn
	}
	return "value"
}

// detectAxisFamily samples the leading group keys and asks whether a
// chronological token family explains them.
func (e *Executor) detectAxisFamily(groups []group) numtoken.TokenFamily {
	n := e.cfg.ChronoSampleSize
	if n <= 0 || n > len(groups) {
		n = len(groups)
	}
	sample := make([]string, n)
	for i := 0; i < n; i++ {
		sample[i] = groups[i].key
	}
	return numtoken.DetectFamily(sample, e.cfg.ChronoMatchRatio)
}

// sortChrono reorders aggregated rows by their decoded chronological
// key; undecodable keys keep relative order after every decodable one.
func sortChrono(rows []plan.AggregatedRow, keyField string, family numtoken.TokenFamily) []plan.AggregatedRow {
	labels := make([]string, len(rows))
	byLabel := make(map[string][]plan.AggregatedRow, len(rows))
	for i, row := range rows {
		label, _ := row[keyField].(string)
		labels[i] = label
		byLabel[label] = append(byLabel[label], row)
	}
	out := make([]plan.AggregatedRow, 0, len(rows))
	for _, label := range numtoken.SortChronologically(labels, family) {
		queue := byLabel[label]
		out = append(out, queue[0])
		byLabel[label] = queue[1:]
	}
	return out
}

// topNOthers keeps the n-1 largest rows of value-sorted data and folds
// the remainder into one Others row, conserving the total.
func topNOthers(rows []plan.AggregatedRow, n int, keyField, valueField string) []plan.AggregatedRow {
	if n <= 1 || len(rows) <= n {
		return rows
	}
	out := append([]plan.AggregatedRow(nil), rows[:n-1]...)
	others := 0.0
	for _, row := range rows[n-1:] {
		if v, ok := row[valueField].(float64); ok {
			others += v
		}
	}
	out = append(out, plan.AggregatedRow{keyField: "Others", valueField: others})
	return out
}
