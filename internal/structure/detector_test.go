package structure

import (
	"reflect"
	"testing"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
)

func reportRows() [][]string {
	return [][]string{
		{"Quarterly Sales Report", "", ""},
		{"Generated on 2024-04-01", "", ""},
		{"", "", ""},
		{"Region", "Product", "Revenue"},
		{"North", "Widget", "1,200.50"},
		{"South", "Gadget", "980.00"},
		{"Total", "", "2180.50"},
	}
}

func TestDetectStructure_FindsHeaderBelowTitle(t *testing.T) {
	det := DetectStructure(reportRows(), DefaultDetectorConfig())

	if !det.HeaderFound {
		t.Fatal("expected header to be found")
	}
	if det.HeaderIndex != 3 {
		t.Fatalf("HeaderIndex = %d, want 3", det.HeaderIndex)
	}
	want := []string{"Region", "Product", "Revenue"}
	if !reflect.DeepEqual(det.CanonicalHeader, want) {
		t.Errorf("CanonicalHeader = %v, want %v", det.CanonicalHeader, want)
	}
	if det.Title != "Quarterly Sales Report" {
		t.Errorf("Title = %q", det.Title)
	}
	if len(det.LeadingRows) != 3 {
		t.Errorf("LeadingRows = %d, want 3", len(det.LeadingRows))
	}
}

func TestDetectStructure_Deterministic(t *testing.T) {
	first := DetectStructure(reportRows(), DefaultDetectorConfig())
	for i := 0; i < 5; i++ {
		again := DetectStructure(reportRows(), DefaultDetectorConfig())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed from first run", i)
		}
	}
}

func TestDetectStructure_FallbackFirstNonEmpty(t *testing.T) {
	rows := [][]string{
		{"", ""},
		{"1", "2"},
		{"3", "4"},
	}
	det := DetectStructure(rows, DefaultDetectorConfig())
	if det.HeaderFound {
		t.Error("all-numeric rows should not yield a header candidate")
	}
	if det.HeaderIndex != 1 {
		t.Errorf("fallback HeaderIndex = %d, want 1", det.HeaderIndex)
	}
}

func TestCanonicalNames_DedupAndBlanks(t *testing.T) {
	got := CanonicalNames([]string{"Amount", "", "amount", "  Amount  ", "Qty"})
	want := []string{"Amount", "Column 2", "amount (2)", "Amount (3)", "Qty"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CanonicalNames = %v, want %v", got, want)
	}
	// Pairwise distinct case-insensitively.
	seen := map[string]bool{}
	for _, name := range got {
		key := name
		if seen[key] {
			t.Errorf("duplicate canonical name %q", name)
		}
		seen[key] = true
	}
}

func TestBuildCanonicalTable(t *testing.T) {
	raw := table.NewRawTable(reportRows())
	ct, meta := BuildCanonicalTable(raw, DefaultDetectorConfig())

	if ct.Len() != 2 {
		t.Fatalf("cleaned rows = %d, want 2", ct.Len())
	}
	if meta.OriginalRows != 3 {
		t.Errorf("OriginalRows = %d, want 3 (total row counts as original)", meta.OriginalRows)
	}
	if meta.RemovedSummaryRows != 1 {
		t.Errorf("RemovedSummaryRows = %d, want 1", meta.RemovedSummaryRows)
	}
	if meta.CleanedRows > meta.OriginalRows {
		t.Error("cleaned row count must not exceed original")
	}
	if meta.HeaderIndex == nil || *meta.HeaderIndex != 3 {
		t.Errorf("HeaderIndex = %v, want 3", meta.HeaderIndex)
	}
	if meta.ReportTitle != "Quarterly Sales Report" {
		t.Errorf("ReportTitle = %q", meta.ReportTitle)
	}
	if got := meta.GenericToCanonical["column_3"]; got != "Revenue" {
		t.Errorf("generic mapping column_3 = %q, want Revenue", got)
	}
	if ct.Records[0]["Revenue"] != "1,200.50" {
		t.Errorf("record value = %q", ct.Records[0]["Revenue"])
	}
	// Cleaned rows never exceed raw rows minus leading and header rows.
	if ct.Len() > raw.Len()-len(meta.LeadingRows)-1 {
		t.Error("cleaned table larger than raw minus leading+header")
	}
}

func TestClassifier_StructuralRules(t *testing.T) {
	tests := []struct {
		name string
		row  []string
		want bool
	}{
		{"empty row", []string{"", "", ""}, true},
		{"total with numerics", []string{"Total", "", "2180.50"}, true},
		{"grand total", []string{"Grand Total", "99", "100"}, true},
		{"page marker", []string{"Page 2 of 9", "", ""}, true},
		{"report banner", []string{"Report: FY24 Sales", "", ""}, true},
		{"generated stamp", []string{"Generated on 2024-04-01", "", ""}, true},
		{"banner with data cells", []string{"Report", "North", "12"}, false},
		{"total with text rest", []string{"Total", "North", "abc"}, false},
		{"plain data", []string{"North", "Widget", "1200"}, false},
		{"hierarchical parent code", []string{"50", "Parent Account", ""}, false},
		{"hierarchical child code", []string{"5010", "Child Account", "120.00"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStructuralSummaryRow(tt.row); got != tt.want {
				t.Errorf("IsStructuralSummaryRow(%v) = %v, want %v", tt.row, got, tt.want)
			}
		})
	}
}

func TestClassifier_KeywordPass(t *testing.T) {
	cfg := DefaultClassifierConfig()
	if !IsKeywordSummaryRow([]string{"Subtotal", "150"}, cfg) {
		t.Error("subtotal row should be flagged")
	}
	if !IsKeywordSummaryRow([]string{"x", "Balance carried forward"}, cfg) {
		t.Error("keyword prefix should be flagged")
	}
	if IsKeywordSummaryRow([]string{"5010", "Cash at bank"}, cfg) {
		t.Error("account codes must survive the keyword pass")
	}
	if IsKeywordSummaryRow([]string{"Totally Fine Ltd", "10"}, cfg) {
		t.Error("keyword must match whole word or word prefix")
	}
	custom := ClassifierConfig{Keywords: []string{"carried forward"}}
	if !IsKeywordSummaryRow([]string{"Carried forward balance"}, custom) {
		t.Error("configurable keyword list should apply")
	}
}
