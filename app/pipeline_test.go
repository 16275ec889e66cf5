package app

import (
	"strconv"
	"testing"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/structure"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(DefaultConfig(), structure.DefaultDetectorConfig(), structure.DefaultClassifierConfig(), nil)
}

func TestPipeline_StandardNormalization(t *testing.T) {
	raw := table.NewRawTable([][]string{
		{"Quarterly Sales", "", ""},
		{"Region", "Revenue", "Units"},
		{"North", "1200", "30"},
		{"South", "800", "20"},
		{"Total", "2000", "50"},
	})

	result := newTestPipeline().Run(raw, plan.StagePlan{})

	if !result.Applied {
		t.Fatalf("pipeline aborted: %s", result.Reason)
	}
	if result.Unpivoted {
		t.Error("standard path marked as unpivoted")
	}
	if got := result.Table.Len(); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	if result.Meta.RemovedSummaryRows != 1 {
		t.Errorf("RemovedSummaryRows = %d, want 1", result.Meta.RemovedSummaryRows)
	}
	if result.Meta.ReportTitle != "Quarterly Sales" {
		t.Errorf("ReportTitle = %q", result.Meta.ReportTitle)
	}
	if result.Table.Records[0]["Region"] != "North" {
		t.Errorf("first record = %v", result.Table.Records[0])
	}
	for _, stage := range []StageName{StageTitleExtraction, StageHeaderResolution, StageDataNormalization} {
		if result.Stages[stage] != StatusReady {
			t.Errorf("stage %s = %s, want %s", stage, result.Stages[stage], StatusReady)
		}
	}
}

func TestPipeline_UnpivotCrosstab(t *testing.T) {
	raw := table.NewRawTable([][]string{
		{"Balance Sheet FY2024 (USD)"},
		{"Code", "Account", "Q1", "Q2", "Q3"},
		{"", "", "2024", "2024", "2024"},
		{"1000", "Cash", "100", "200", "300"},
		{"2000", "Receivables", "50", "60", "70"},
		{"", "Total", "150", "260", "370"},
	})
	sp := plan.StagePlan{
		HeaderResolution: plan.StageDirective{
			Goal:       "The sheet is cross-tabulated with two header rows.",
			Heuristics: []string{`Keep identifiers "Code" and "Account".`},
		},
		DataNormalization: plan.StageDirective{
			Goal:        "Unpivot columns 3 to 5; exclude total rows.",
			Checkpoints: []string{`Name the pivot field "Quarter" and the value field "Amount".`},
		},
	}

	result := newTestPipeline().Run(raw, sp)

	if !result.Applied {
		t.Fatalf("pipeline aborted: %s", result.Reason)
	}
	if !result.Unpivoted {
		t.Fatal("unpivot path not taken")
	}
	if got := result.Table.Len(); got != 6 {
		t.Fatalf("rows = %d, want 6", got)
	}

	var sum float64
	for _, rec := range result.Table.Records {
		v, err := strconv.ParseFloat(rec["Amount"], 64)
		if err != nil {
			t.Fatalf("Amount %q: %v", rec["Amount"], err)
		}
		sum += v
	}
	if sum != 780 {
		t.Errorf("melted sum = %v, want 780", sum)
	}

	first := result.Table.Records[0]
	if first["Code"] != "1000" || first["Account"] != "Cash" {
		t.Errorf("identifiers = %v", first)
	}
	if first["Quarter"] != "Q1 2024" {
		t.Errorf("Quarter = %q, want %q", first["Quarter"], "Q1 2024")
	}

	rc := result.ReportContext
	if rc == nil {
		t.Fatal("ReportContext missing")
	}
	if rc.ReportingPeriod != "FY2024" {
		t.Errorf("ReportingPeriod = %q", rc.ReportingPeriod)
	}
	if rc.Currency != "USD" {
		t.Errorf("Currency = %q", rc.Currency)
	}
	if rc.ReportType != "Balance Sheet" && rc.ReportType != "balance sheet" {
		t.Errorf("ReportType = %q", rc.ReportType)
	}
}

func TestPipeline_AbortOnAllLeading(t *testing.T) {
	raw := table.NewRawTable([][]string{
		{""},
		{"Report: empty export"},
		{""},
	})

	result := newTestPipeline().Run(raw, plan.StagePlan{})

	if result.Applied {
		t.Fatal("expected typed no-op")
	}
	if result.Reason == "" {
		t.Error("abort reason missing")
	}
	if result.Stages[StageTitleExtraction] != StatusAbort {
		t.Errorf("titleExtraction = %s, want %s", result.Stages[StageTitleExtraction], StatusAbort)
	}
	if result.Stages[StageDataNormalization] != StatusPending {
		t.Errorf("dataNormalization = %s, want %s", result.Stages[StageDataNormalization], StatusPending)
	}
}

func TestPipeline_AbortWhenNormalizationEmpties(t *testing.T) {
	raw := table.NewRawTable([][]string{
		{"Item", "Amount"},
		{"Total", "100"},
	})

	result := newTestPipeline().Run(raw, plan.StagePlan{})

	if result.Applied {
		t.Fatal("expected typed no-op")
	}
	if result.Stages[StageDataNormalization] != StatusAbort {
		t.Errorf("dataNormalization = %s, want %s", result.Stages[StageDataNormalization], StatusAbort)
	}
}
