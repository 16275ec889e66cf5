package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, cells map[string]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for ref, value := range cells {
		if err := f.SetCellValue("Sheet1", ref, value); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReader_Read(t *testing.T) {
	path := writeWorkbook(t, map[string]interface{}{
		"A1": "Quarterly Sales",
		"A2": "Region", "B2": "Revenue",
		"A3": "North", "B3": 1200,
		"A4": "South", "B4": 800,
	})

	raw, err := NewReader(nil).Read(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	rows := raw.Rows()
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	if rows[1][0] != "Region" || rows[1][1] != "Revenue" {
		t.Errorf("header row = %v", rows[1])
	}
	if rows[2][1] != "1200" {
		t.Errorf("numeric cell = %q, want formatted string", rows[2][1])
	}
}

func TestReader_ReadMissingSheet(t *testing.T) {
	path := writeWorkbook(t, map[string]interface{}{"A1": "x"})

	r := NewReader(nil)
	r.Sheet = "Absent"
	if _, err := r.Read(context.Background(), path); err == nil {
		t.Fatal("expected error for missing sheet")
	}
}
