package numtoken

import (
	"reflect"
	"testing"
)

func TestSortChronologically_MonthsAcrossYears(t *testing.T) {
	labels := []string{
		"JAN/11", "MAY/10", "AUG/10", "OCT/10", "JUN/10", "NOV/10",
		"SEP/10", "MAR/10", "APR/10", "JUL/10", "DEC/10", "JAN/10", "FEB/10",
	}
	want := []string{
		"JAN/10", "FEB/10", "MAR/10", "APR/10", "MAY/10", "JUN/10",
		"JUL/10", "AUG/10", "SEP/10", "OCT/10", "NOV/10", "DEC/10", "JAN/11",
	}
	got := SortChronologically(labels, FamilyMonth)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("month sort = %v, want %v", got, want)
	}
}

func TestSortChronologically_QuarterFormats(t *testing.T) {
	labels := []string{"FY24 Q1", "Q4 FY23", "Q2/23", "Q3 2022"}
	want := []string{"Q3 2022", "Q2/23", "Q4 FY23", "FY24 Q1"}
	got := SortChronologically(labels, FamilyQuarter)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("quarter sort = %v, want %v", got, want)
	}
}

func TestSortChronologically_UnparseableLast(t *testing.T) {
	labels := []string{"Unknown", "Feb", "Jan"}
	want := []string{"Jan", "Feb", "Unknown"}
	got := SortChronologically(labels, FamilyMonth)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sort = %v, want %v", got, want)
	}
}

func TestWeekdayKey_NoisyLabels(t *testing.T) {
	wed, ok := WeekdayKey("Wed-")
	if !ok || wed != 3 {
		t.Errorf("WeekdayKey(Wed-) = %d/%v, want 3/true", wed, ok)
	}
	if _, ok := WeekdayKey("Widget"); ok {
		t.Error("Widget should not decode as a weekday")
	}
}

func TestTwoDigitYearPivot(t *testing.T) {
	k49, _ := QuarterKey("Q1 49") // 2049
	k50, _ := QuarterKey("Q1 50") // 1950
	if k50 >= k49 {
		t.Errorf("expected Q1 50 (1950) to sort before Q1 49 (2049): %d vs %d", k50, k49)
	}
}

func TestDetectFamily(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   TokenFamily
	}{
		{"months", []string{"Jan", "Feb", "Mar", "Apr"}, FamilyMonth},
		{"months above half", []string{"Jan", "Feb", "Mar", "N/A"}, FamilyMonth},
		{"quarters", []string{"Q1 2024", "Q2 2024"}, FamilyQuarter},
		{"weekdays", []string{"Mon", "Tue", "Wed"}, FamilyWeekday},
		{"iso dates", []string{"2024-01-01", "2024-02-01"}, FamilyISODate},
		{"plain categories", []string{"North", "South", "East"}, FamilyNone},
		{"empty", nil, FamilyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFamily(tt.labels, 0.5); got != tt.want {
				t.Errorf("DetectFamily(%v) = %q, want %q", tt.labels, got, tt.want)
			}
		})
	}
}
