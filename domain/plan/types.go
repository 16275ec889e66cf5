package plan

import (
	"fmt"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/core"
)

// ChartType selects the chart a plan drives.
type ChartType string

const (
	ChartBar      ChartType = "bar"
	ChartLine     ChartType = "line"
	ChartPie      ChartType = "pie"
	ChartDoughnut ChartType = "doughnut"
	ChartScatter  ChartType = "scatter"
)

// Aggregation selects how grouped values are combined.
type Aggregation string

const (
	AggSum   Aggregation = "sum"
	AggCount Aggregation = "count"
	AggAvg   Aggregation = "avg"
)

// AnalysisType overrides default execution with an advanced analysis.
type AnalysisType string

const (
	AnalysisCorrelation   AnalysisType = "correlation"
	AnalysisKMeans        AnalysisType = "clustering_kmeans"
	AnalysisDecompose     AnalysisType = "time_series_decompose"
	AnalysisLinearForecast AnalysisType = "prediction_linear"
)

// AnalysisPlan is the declarative chart/analysis request produced by an
// external planner (LLM or UI). It is consumed by value; resolved
// defaults come back on a Resolved, never by mutating the caller's plan.
type AnalysisPlan struct {
	ChartType     ChartType    `json:"chartType"`
	Aggregation   Aggregation  `json:"aggregation,omitempty"`
	GroupByColumn string       `json:"groupByColumn,omitempty"`
	ValueColumn   string       `json:"valueColumn,omitempty"`
	XValueColumn  string       `json:"xValueColumn,omitempty"`
	YValueColumn  string       `json:"yValueColumn,omitempty"`
	AnalysisType  AnalysisType `json:"analysisType,omitempty"`

	// Advanced-analysis tuning
	K              int      `json:"k,omitempty"`
	Standardize    *bool    `json:"standardize,omitempty"`
	Window         int      `json:"window,omitempty"`
	Horizon        int      `json:"horizon,omitempty"`
	MaxColumns     int      `json:"maxColumns,omitempty"`
	TopPairs       int      `json:"topPairs,omitempty"`
	FeatureColumns []string `json:"featureColumns,omitempty"`
	ValueColumns   []string `json:"valueColumns,omitempty"`
	MaxFeatures    int      `json:"maxFeatures,omitempty"`
}

// IsScatter reports whether the plan is a plain scatter request.
func (p AnalysisPlan) IsScatter() bool {
	return p.ChartType == ChartScatter
}

// Validate rejects plans missing required fields with a specific
// reason. Callers decide whether to skip or patch a rejected plan.
func (p AnalysisPlan) Validate() error {
	switch p.ChartType {
	case ChartBar, ChartLine, ChartPie, ChartDoughnut, ChartScatter:
	case "":
		return core.NewMissingFieldError("chartType")
	default:
		return fmt.Errorf("%w: %q", core.ErrUnsupportedChartType, p.ChartType)
	}

	if p.AnalysisType != "" {
		switch p.AnalysisType {
		case AnalysisCorrelation, AnalysisKMeans, AnalysisDecompose, AnalysisLinearForecast:
			return nil
		default:
			return core.NewValidationError("analysisType", fmt.Sprintf("unknown value %q", p.AnalysisType))
		}
	}

	if p.IsScatter() {
		return nil
	}

	if p.GroupByColumn == "" {
		return core.NewMissingFieldError("groupByColumn")
	}
	switch p.Aggregation {
	case AggSum, AggCount, AggAvg:
	case "":
		return core.NewMissingFieldError("aggregation")
	default:
		return fmt.Errorf("%w: %q", core.ErrUnsupportedAggregation, p.Aggregation)
	}
	return nil
}

// Resolved is the executor's output plan: the caller's plan plus every
// default the executor filled in while running it.
type Resolved struct {
	AnalysisPlan
	// ValueField names the numeric field on each aggregated row.
	ValueField string `json:"valueField"`
}

// AggregatedRow is one chart-ready record: a label field plus a numeric
// value field (or x/y fields for scatter output).
type AggregatedRow map[string]interface{}

// SumOf sums the named numeric field across rows, ignoring rows where
// the field is absent or non-numeric.
func SumOf(rows []AggregatedRow, field string) float64 {
	total := 0.0
	for _, row := range rows {
		if v, ok := row[field].(float64); ok {
			total += v
		}
	}
	return total
}
