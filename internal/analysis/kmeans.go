package analysis

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/core"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
)

// cluster runs Lloyd's k-means over the numeric feature columns and
// returns the points projected onto an x/y pair, tagged with their
// cluster label.
func (e *Executor) cluster(t table.CanonicalTable, p plan.AnalysisPlan) ([]plan.AggregatedRow, plan.Resolved, error) {
	features := p.FeatureColumns
	if len(features) == 0 {
		features = e.numericColumns(t)
	}
	maxFeatures := p.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > e.cfg.MaxFeatures {
		maxFeatures = e.cfg.MaxFeatures
	}
	if len(features) > maxFeatures {
		features = features[:maxFeatures]
	}
	if len(features) == 0 {
		return nil, plan.Resolved{}, core.ErrNoNumericColumns
	}

	// Keep only rows where every feature parses.
	var points [][]float64
	var rowIdx []int
	for i, rec := range t.Records {
		vec := make([]float64, len(features))
		ok := true
		for f, col := range features {
			v, parsed := numtoken.ParseNumber(rec[col])
			if !parsed {
				ok = false
				break
			}
			vec[f] = v
		}
		if ok {
			points = append(points, vec)
			rowIdx = append(rowIdx, i)
		}
	}

	k := p.K
	if k == 0 {
		k = e.cfg.KDefault
	}
	k = clamp(k, e.cfg.KMin, e.cfg.KMax)
	if len(points) < k {
		return nil, plan.Resolved{}, fmt.Errorf("%w: %d rows for k=%d", core.ErrInsufficientData, len(points), k)
	}

	standardize := p.Standardize == nil || *p.Standardize
	space := points
	if standardize {
		space = zscore(points)
	}

	assignments := lloyd(space, k, e.cfg.MaxIterations)

	xCol, yCol := projectAxes(p, features)
	rows := make([]plan.AggregatedRow, len(points))
	for i := range points {
		rows[i] = plan.AggregatedRow{
			"x":       projectValue(points[i], features, xCol, rowIdx[i]),
			"y":       projectValue(points[i], features, yCol, rowIdx[i]),
			"cluster": fmt.Sprintf("Cluster %d", assignments[i]+1),
		}
	}

	resolved := plan.Resolved{AnalysisPlan: p, ValueField: "y"}
	resolved.FeatureColumns = features
	resolved.K = k
	resolved.Standardize = &standardize
	resolved.XValueColumn = xCol
	resolved.YValueColumn = yCol
	e.logger.Debug("k-means clustered %d rows into k=%d", len(points), k)
	return rows, resolved, nil
}

// zscore standardizes each feature dimension with the sample standard
// deviation, floored at 1 so constant features stay finite.
func zscore(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return points
	}
	dims := len(points[0])
	out := make([][]float64, len(points))
	for i := range out {
		out[i] = make([]float64, dims)
	}
	column := make([]float64, len(points))
	for d := 0; d < dims; d++ {
		for i, vec := range points {
			column[i] = vec[d]
		}
		mean, _ := stats.Mean(column)
		sd := 1.0
		if len(column) > 1 {
			if s, err := stats.StandardDeviationSample(column); err == nil && s > 1 {
				sd = s
			}
		}
		for i, vec := range points {
			out[i][d] = (vec[d] - mean) / sd
		}
	}
	return out
}

// lloyd runs the standard k-means loop with deterministic evenly-spread
// initial centroids, stopping on convergence or the iteration cap.
func lloyd(points [][]float64, k, maxIterations int) []int {
	dims := len(points[0])
	centroids := make([][]float64, k)
	for c := 0; c < k; c++ {
		idx := 0
		if k > 1 {
			idx = c * (len(points) - 1) / (k - 1)
		}
		centroids[c] = append([]float64(nil), points[idx]...)
	}

	assignments := make([]int, len(points))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, vec := range points {
			best := 0
			bestDist := math.Inf(1)
			for c, centroid := range centroids {
				d := squaredDistance(vec, centroid)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute means; an emptied cluster keeps its centroid.
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, vec := range points {
			c := assignments[i]
			counts[c]++
			for d, v := range vec {
				sums[c][d] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}
	return assignments
}

func squaredDistance(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		diff := a[i] - b[i]
		total += diff * diff
	}
	return total
}

// projectAxes picks the output x/y columns: explicit plan columns that
// are features, else the first two distinct features, else row index.
func projectAxes(p plan.AnalysisPlan, features []string) (string, string) {
	has := func(col string) bool {
		for _, f := range features {
			if f == col {
				return true
			}
		}
		return false
	}
	x, y := "", ""
	if has(p.XValueColumn) {
		x = p.XValueColumn
	}
	if has(p.YValueColumn) && p.YValueColumn != x {
		y = p.YValueColumn
	}
	for _, f := range features {
		if x == "" && f != y {
			x = f
			continue
		}
		if y == "" && f != x {
			y = f
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

// projectValue reads one axis of an original (unstandardized) point.
func projectValue(vec []float64, features []string, col string, rowIdx int) float64 {
	for f, name := range features {
		if name == col {
			return vec[f]
		}
	}
	return float64(rowIdx + 1)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
