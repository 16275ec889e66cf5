package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/core"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
)

// Pairs with fewer overlapping parsed rows than this report r=0.
const minCorrelationSamples = 3

// correlate computes Pearson correlation per unordered column pair and
// returns the strongest pairs as {pair:"A ~ B", value:r} rows.
func (e *Executor) correlate(t table.CanonicalTable, p plan.AnalysisPlan) ([]plan.AggregatedRow, plan.Resolved, error) {
	columns := p.ValueColumns
	if len(columns) == 0 {
		columns = e.numericColumns(t)
	}
	maxCols := p.MaxColumns
	if maxCols <= 0 || maxCols > e.cfg.MaxCorrelationColumns {
		maxCols = e.cfg.MaxCorrelationColumns
	}
	if len(columns) > maxCols {
		columns = columns[:maxCols]
	}
	if len(columns) < 2 {
		return nil, plan.Resolved{}, core.ErrNoNumericColumns
	}

	parsed := make(map[string][]float64, len(columns))
	ok := make(map[string][]bool, len(columns))
	for _, col := range columns {
		values := t.Column(col)
		parsed[col] = make([]float64, len(values))
		ok[col] = make([]bool, len(values))
		for i, v := range values {
			parsed[col][i], ok[col][i] = numtoken.ParseNumber(v)
		}
	}

	type pair struct {
		label string
		r     float64
	}
	var pairs []pair
	for i := 0; i < len(columns); i++ {
		for j := i + 1; j < len(columns); j++ {
			a, b := columns[i], columns[j]
			var xs, ys []float64
			for row := 0; row < t.Len(); row++ {
				if ok[a][row] && ok[b][row] {
					xs = append(xs, parsed[a][row])
					ys = append(ys, parsed[b][row])
				}
			}
			r := 0.0
			if len(xs) >= minCorrelationSamples {
				r = stat.Correlation(xs, ys, nil)
			}
			pairs = append(pairs, pair{label: a + " ~ " + b, r: r})
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := abs(pairs[i].r), abs(pairs[j].r)
		if ai != aj {
			return ai > aj
		}
		return pairs[i].label < pairs[j].label
	})

	topPairs := p.TopPairs
	if topPairs <= 0 || topPairs > e.cfg.TopPairs {
		topPairs = e.cfg.TopPairs
	}
	if len(pairs) > topPairs {
		pairs = pairs[:topPairs]
	}

	rows := make([]plan.AggregatedRow, len(pairs))
	for i, pr := range pairs {
		rows[i] = plan.AggregatedRow{"pair": pr.label, "value": pr.r}
	}

	resolved := plan.Resolved{AnalysisPlan: p, ValueField: "value"}
	resolved.ValueColumns = columns
	resolved.MaxColumns = maxCols
	resolved.TopPairs = topPairs
	return rows, resolved, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
