// Package analysis executes declarative chart/analysis plans against a
// cleaned table and returns chart-ready rows.
package analysis

import (
	"fmt"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/core"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/logging"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
)

// Config defines the executor thresholds
type Config struct {
	// NumericCoverage is the parse-coverage floor for a column to be
	// auto-inferred as numeric.
	NumericCoverage float64 `json:"numeric_coverage" mapstructure:"numeric_coverage"`
	// MaxCorrelationColumns caps the columns entering a correlation
	// matrix.
	MaxCorrelationColumns int `json:"max_correlation_columns" mapstructure:"max_correlation_columns"`
	// TopPairs caps the correlation pairs returned.
	TopPairs int `json:"top_pairs" mapstructure:"top_pairs"`
	// MaxFeatures caps the k-means feature columns.
	MaxFeatures int `json:"max_features" mapstructure:"max_features"`
	// KMin/KMax/KDefault bound the cluster count.
	KMin     int `json:"k_min" mapstructure:"k_min"`
	KMax     int `json:"k_max" mapstructure:"k_max"`
	KDefault int `json:"k_default" mapstructure:"k_default"`
	// MaxIterations bounds Lloyd's algorithm.
	MaxIterations int `json:"max_iterations" mapstructure:"max_iterations"`
	// MinWindow/DefaultWindow bound the trailing moving average.
	MinWindow     int `json:"min_window" mapstructure:"min_window"`
	DefaultWindow int `json:"default_window" mapstructure:"default_window"`
	// DefaultHorizon/MaxHorizon bound the linear forecast.
	DefaultHorizon int `json:"default_horizon" mapstructure:"default_horizon"`
	MaxHorizon     int `json:"max_horizon" mapstructure:"max_horizon"`
	// ChronoSampleSize/ChronoMatchRatio drive axis-order detection.
	ChronoSampleSize int     `json:"chrono_sample_size" mapstructure:"chrono_sample_size"`
	ChronoMatchRatio float64 `json:"chrono_match_ratio" mapstructure:"chrono_match_ratio"`
	// DateOrderRatio is the key parse-coverage floor for chronological
	// ordering in the time-series analyses.
	DateOrderRatio float64 `json:"date_order_ratio" mapstructure:"date_order_ratio"`
	// TopN caps value-sorted default-chart output; the remainder folds
	// into one Others row. 0 disables bucketing.
	TopN int `json:"top_n" mapstructure:"top_n"`
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() Config {
	return Config{
		NumericCoverage:       0.8,
		MaxCorrelationColumns: 12,
		TopPairs:              50,
		MaxFeatures:           6,
		KMin:                  2,
		KMax:                  12,
		KDefault:              3,
		MaxIterations:         100,
		MinWindow:             2,
		DefaultWindow:         7,
		DefaultHorizon:        10,
		MaxHorizon:            365,
		ChronoSampleSize:      10,
		ChronoMatchRatio:      0.5,
		DateOrderRatio:        0.6,
		TopN:                  12,
	}
}

// Executor runs analysis plans. It is stateless and safe for reuse.
type Executor struct {
	cfg    Config
	logger *logging.Logger
}

// NewExecutor creates an executor with the given configuration.
func NewExecutor(cfg Config, logger *logging.Logger) *Executor {
	if cfg.MaxCorrelationColumns <= 0 {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Executor{cfg: cfg, logger: logger}
}

// Execute validates and runs a plan. Defaults the executor fills in come
// back on the Resolved; the caller's plan is never mutated.
func (e *Executor) Execute(t table.CanonicalTable, p plan.AnalysisPlan) ([]plan.AggregatedRow, plan.Resolved, error) {
	if err := p.Validate(); err != nil {
		return nil, plan.Resolved{}, fmt.Errorf("%w: %w", core.ErrInvalidPlan, err)
	}
	if t.Len() == 0 {
		return nil, plan.Resolved{}, core.ErrEmptyTable
	}

	switch p.AnalysisType {
	case plan.AnalysisCorrelation:
		return e.correlate(t, p)
	case plan.AnalysisKMeans:
		return e.cluster(t, p)
	case plan.AnalysisDecompose:
		return e.decompose(t, p)
	case plan.AnalysisLinearForecast:
		return e.forecast(t, p)
	}

	if p.IsScatter() {
		return e.scatter(t, p)
	}
	return e.aggregateChart(t, p)
}

// numericColumns returns the columns whose parse coverage clears the
// configured floor, in table order.
func (e *Executor) numericColumns(t table.CanonicalTable) []string {
	var out []string
	for _, col := range t.Columns {
		nonEmpty := 0
		parsed := 0
		for _, v := range t.Column(col) {
			if v == "" {
				continue
			}
			nonEmpty++
			if _, ok := numtoken.ParseNumber(v); ok {
				parsed++
			}
		}
		if nonEmpty > 0 && float64(parsed)/float64(nonEmpty) >= e.cfg.NumericCoverage {
			out = append(out, col)
		}
	}
	return out
}
