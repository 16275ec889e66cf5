package app

import (
	"reflect"
	"testing"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
)

func TestExtractHints_LeadingRows(t *testing.T) {
	tests := []struct {
		name string
		goal string
		want int
	}{
		{"skip phrase", "Skip the first 4 rows before the header.", 4},
		{"count phrase", "There are 2 leading rows of metadata.", 2},
		{"range phrase", "Rows 1-3 contain the report banner.", 3},
		{"no hint", "Find the report title if present.", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := plan.StagePlan{TitleExtraction: plan.StageDirective{Goal: tt.goal}}
			if got := ExtractHints(sp).LeadingRowCount; got != tt.want {
				t.Errorf("LeadingRowCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractHints_HeaderRows(t *testing.T) {
	tests := []struct {
		name string
		goal string
		want int
	}{
		{"digit", "Expect 2 header rows stacked above the data.", 2},
		{"word", "The table has two header rows.", 2},
		{"alt form", "header rows: 3", 3},
		{"none", "Resolve the header as usual.", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := plan.StagePlan{HeaderResolution: plan.StageDirective{Goal: tt.goal}}
			if got := ExtractHints(sp).HeaderRowCount; got != tt.want {
				t.Errorf("HeaderRowCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExtractHints_UnpivotDirectives(t *testing.T) {
	sp := plan.StagePlan{
		HeaderResolution: plan.StageDirective{
			Goal: "The sheet is cross-tabulated with two header rows.",
			Heuristics: []string{
				`Keep identifiers "Code" and "Account" on every output row.`,
			},
		},
		DataNormalization: plan.StageDirective{
			Goal: "Unpivot columns 3 to 5 into tidy rows; exclude total rows.",
			Checkpoints: []string{
				`Name the pivot field "Quarter" and the value field "Amount".`,
			},
		},
	}

	hints := ExtractHints(sp)

	if !hints.Unpivot {
		t.Error("Unpivot hint not detected")
	}
	if !hints.ExcludeTotals {
		t.Error("ExcludeTotals hint not detected")
	}
	if hints.HeaderRowCount != 2 {
		t.Errorf("HeaderRowCount = %d, want 2", hints.HeaderRowCount)
	}
	if hints.PivotStart != 3 || hints.PivotEnd != 5 {
		t.Errorf("pivot range = %d..%d, want 3..5", hints.PivotStart, hints.PivotEnd)
	}
	if want := []string{"Code", "Account"}; !reflect.DeepEqual(hints.IdentifierLabels, want) {
		t.Errorf("IdentifierLabels = %v, want %v", hints.IdentifierLabels, want)
	}
	if hints.PivotFieldLabel != "Quarter" {
		t.Errorf("PivotFieldLabel = %q", hints.PivotFieldLabel)
	}
	if hints.ValueFieldLabel != "Amount" {
		t.Errorf("ValueFieldLabel = %q", hints.ValueFieldLabel)
	}
}

func TestExtractHints_EmptyPlan(t *testing.T) {
	hints := ExtractHints(plan.StagePlan{})
	if !reflect.DeepEqual(hints, plan.Hints{}) {
		t.Errorf("empty plan produced hints: %+v", hints)
	}
}
