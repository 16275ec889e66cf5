package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/core"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
)

// series is the sum-aggregated, ordered input to both time-series
// analyses.
type series struct {
	keys   []string
	values []float64
	dated  bool
}

// decompose smooths the aggregated series with a trailing moving
// average and returns {key, value: avg} rows.
func (e *Executor) decompose(t table.CanonicalTable, p plan.AnalysisPlan) ([]plan.AggregatedRow, plan.Resolved, error) {
	s, err := e.buildSeries(t, p)
	if err != nil {
		return nil, plan.Resolved{}, err
	}

	window := p.Window
	if window == 0 {
		window = e.cfg.DefaultWindow
	}
	if window < e.cfg.MinWindow {
		window = e.cfg.MinWindow
	}

	valueField := resolveValueField(p)
	rows := make([]plan.AggregatedRow, len(s.keys))
	for i := range s.keys {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		sum := 0.0
		for j := start; j <= i; j++ {
			sum += s.values[j]
		}
		rows[i] = plan.AggregatedRow{
			p.GroupByColumn: s.keys[i],
			valueField:      sum / float64(i-start+1),
		}
	}

	resolved := plan.Resolved{AnalysisPlan: p, ValueField: valueField}
	resolved.Aggregation = plan.AggSum
	resolved.Window = window
	return rows, resolved, nil
}

// forecast fits value = a + b*index by ordinary least squares and
// extends the series by the clamped horizon. Forecast rows carry
// isForecast:true.
func (e *Executor) forecast(t table.CanonicalTable, p plan.AnalysisPlan) ([]plan.AggregatedRow, plan.Resolved, error) {
	s, err := e.buildSeries(t, p)
	if err != nil {
		return nil, plan.Resolved{}, err
	}
	if len(s.keys) < 2 {
		return nil, plan.Resolved{}, fmt.Errorf("%w: %d points to fit", core.ErrInsufficientData, len(s.keys))
	}

	horizon := p.Horizon
	if horizon == 0 {
		horizon = e.cfg.DefaultHorizon
	}
	horizon = clamp(horizon, 1, e.cfg.MaxHorizon)

	xs := make([]float64, len(s.values))
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta := stat.LinearRegression(xs, s.values, nil, false)

	valueField := resolveValueField(p)
	rows := make([]plan.AggregatedRow, 0, len(s.keys)+horizon)
	for i, key := range s.keys {
		rows = append(rows, plan.AggregatedRow{
			p.GroupByColumn: key,
			valueField:      s.values[i],
		})
	}

	labels := forecastLabels(s, horizon)
	for h := 1; h <= horizon; h++ {
		rows = append(rows, plan.AggregatedRow{
			p.GroupByColumn: labels[h-1],
			valueField:      alpha + beta*float64(len(s.values)-1+h),
			"isForecast":    true,
		})
	}

	resolved := plan.Resolved{AnalysisPlan: p, ValueField: valueField}
	resolved.Aggregation = plan.AggSum
	resolved.Horizon = horizon
	return rows, resolved, nil
}

// buildSeries sum-aggregates valueColumn by groupByColumn and orders
// the keys chronologically when enough of them date-parse, else
// lexicographically.
func (e *Executor) buildSeries(t table.CanonicalTable, p plan.AnalysisPlan) (series, error) {
	if p.GroupByColumn == "" {
		return series{}, fmt.Errorf("%w: %w", core.ErrInvalidPlan, core.NewMissingFieldError("groupByColumn"))
	}
	if p.ValueColumn == "" {
		return series{}, fmt.Errorf("%w: %w", core.ErrInvalidPlan, core.NewMissingFieldError("valueColumn"))
	}

	groups := aggregateBy(t, p.GroupByColumn, p.ValueColumn)
	if len(groups) == 0 {
		return series{}, core.ErrInsufficientData
	}

	dated := 0
	for _, g := range groups {
		if _, ok := numtoken.ParseDate(g.key); ok {
			dated++
		}
	}
	isDated := float64(dated)/float64(len(groups)) >= e.cfg.DateOrderRatio

	sort.SliceStable(groups, func(i, j int) bool {
		if isDated {
			a, aok := numtoken.DateKey(groups[i].key)
			b, bok := numtoken.DateKey(groups[j].key)
			if aok != bok {
				return aok
			}
			if aok {
				return a < b
			}
		}
		return groups[i].key < groups[j].key
	})

	s := series{dated: isDated}
	for _, g := range groups {
		s.keys = append(s.keys, g.key)
		s.values = append(s.values, g.sum)
	}
	return s, nil
}

// forecastLabels names the horizon points: date-like series advance the
// last date by the median observed gap, everything else gets
// "Forecast <h>".
func forecastLabels(s series, horizon int) []string {
	labels := make([]string, horizon)
	if s.dated {
		if last, gap, ok := medianGap(s.keys); ok {
			for h := 1; h <= horizon; h++ {
				labels[h-1] = last.Add(time.Duration(h) * gap).Format("2006-01-02")
			}
			return labels
		}
	}
	for h := 1; h <= horizon; h++ {
		labels[h-1] = fmt.Sprintf("Forecast %d", h)
	}
	return labels
}

// medianGap returns the last parseable date and the median gap between
// consecutive parseable dates.
func medianGap(keys []string) (time.Time, time.Duration, bool) {
	var dates []time.Time
	for _, key := range keys {
		if d, ok := numtoken.ParseDate(key); ok {
			dates = append(dates, d)
		}
	}
	if len(dates) < 2 {
		return time.Time{}, 0, false
	}
	gaps := make([]float64, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		gaps[i-1] = dates[i].Sub(dates[i-1]).Seconds()
	}
	median, err := stats.Median(gaps)
	if err != nil || median <= 0 {
		return time.Time{}, 0, false
	}
	return dates[len(dates)-1], time.Duration(median * float64(time.Second)), true
}
