package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/core"
)

func TestAnalysisPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		plan    AnalysisPlan
		wantErr error
	}{
		{
			name: "valid bar",
			plan: AnalysisPlan{ChartType: ChartBar, Aggregation: AggSum, GroupByColumn: "Region"},
		},
		{
			name: "scatter needs no group by",
			plan: AnalysisPlan{ChartType: ChartScatter},
		},
		{
			name: "analysis type bypasses aggregation checks",
			plan: AnalysisPlan{ChartType: ChartLine, AnalysisType: AnalysisCorrelation},
		},
		{
			name:    "missing chart type",
			plan:    AnalysisPlan{},
			wantErr: core.ErrInvalidPlan,
		},
		{
			name:    "unknown chart type",
			plan:    AnalysisPlan{ChartType: "sunburst"},
			wantErr: core.ErrUnsupportedChartType,
		},
		{
			name:    "missing group by",
			plan:    AnalysisPlan{ChartType: ChartPie, Aggregation: AggSum},
			wantErr: core.ErrInvalidPlan,
		},
		{
			name:    "unsupported aggregation",
			plan:    AnalysisPlan{ChartType: ChartBar, GroupByColumn: "Region", Aggregation: "median"},
			wantErr: core.ErrUnsupportedAggregation,
		},
		{
			name:    "unknown analysis type",
			plan:    AnalysisPlan{ChartType: ChartBar, AnalysisType: "pca"},
			wantErr: core.ErrInvalidPlan,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.wantErr), "err = %v, want %v", err, tt.wantErr)
		})
	}
}

func TestSumOf(t *testing.T) {
	rows := []AggregatedRow{
		{"Region": "North", "Revenue": 100.0},
		{"Region": "South", "Revenue": 50.0},
		{"Region": "East", "Revenue": "not numeric"},
	}
	require.Equal(t, 150.0, SumOf(rows, "Revenue"))
	require.Equal(t, 0.0, SumOf(rows, "absent"))
}

func TestStagePlan_TextFlattensAllStages(t *testing.T) {
	sp := StagePlan{
		TitleExtraction:   StageDirective{Goal: "find the title"},
		HeaderResolution:  StageDirective{Checkpoints: []string{"two header rows"}},
		DataNormalization: StageDirective{Heuristics: []string{"unpivot the metric columns"}},
	}
	text := sp.Text()
	require.Contains(t, text, "find the title")
	require.Contains(t, text, "two header rows")
	require.Contains(t, text, "unpivot the metric columns")
}
