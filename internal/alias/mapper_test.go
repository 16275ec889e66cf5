package alias

import (
	"reflect"
	"testing"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
)

func TestMapper_RoundTrip(t *testing.T) {
	m := NewMapper([]string{"Region", "Revenue"})

	if got, ok := m.Canonical("column_1"); !ok || got != "Region" {
		t.Errorf("Canonical(column_1) = %q/%v", got, ok)
	}
	if got, ok := m.Generic("Revenue"); !ok || got != "column_2" {
		t.Errorf("Generic(Revenue) = %q/%v", got, ok)
	}
	if _, ok := m.Canonical("column_9"); ok {
		t.Error("unmapped generic should not resolve")
	}
}

func TestMapper_ApplyIdempotent(t *testing.T) {
	m := NewMapper([]string{"Region", "Revenue"})
	rec := table.Record{"column_1": "North", "column_2": "1200"}

	once := m.Apply(rec)
	want := table.Record{"Region": "North", "Revenue": "1200"}
	if !reflect.DeepEqual(once, want) {
		t.Fatalf("Apply = %v, want %v", once, want)
	}

	twice := m.Apply(once)
	if !reflect.DeepEqual(twice, want) {
		t.Errorf("second Apply changed the record: %v", twice)
	}
}

func TestMapper_ApplyAll(t *testing.T) {
	m := NewMapper([]string{"Region", "Revenue"})
	gt := table.GenericTable{
		Columns: []string{"column_1", "column_2"},
		Records: []table.Record{{"column_1": "North", "column_2": "1"}},
	}
	ct := m.ApplyAll(gt)
	if !reflect.DeepEqual(ct.Columns, []string{"Region", "Revenue"}) {
		t.Errorf("Columns = %v", ct.Columns)
	}
	if ct.Records[0]["Region"] != "North" {
		t.Errorf("Records = %v", ct.Records)
	}
}
