package numtoken

import (
	"math"
	"reflect"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{"plain integer", "1234", 1234, true},
		{"currency with thousands", "$1,234.56", 1234.56, true},
		{"parenthesized negative", "(123.45)", -123.45, true},
		{"euro currency", "€2.500,75", 2500.75, true},
		{"pound currency", "£99", 99, true},
		{"yen", "¥1,000", 1000, true},
		{"percentage", "45.5%", 45.5, true},
		{"comma decimal", "1,5", 1.5, true},
		{"comma thousands only", "1,500", 1500, true},
		{"negative sign", "-42.5", -42.5, true},
		{"internal whitespace", " 1 234.5 ", 1234.5, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"text", "North Region", 0, false},
		{"mixed", "12 widgets", 0, false},
		{"lone symbol", "$", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitNumericList(t *testing.T) {
	got := SplitNumericList("1,500.00,2,000.00")
	want := []string{"1,500.00", "2,000.00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitNumericList = %v, want %v", got, want)
	}

	// The split values must survive a round trip through ParseNumber.
	values := []float64{1500, 2000}
	for i, s := range got {
		v, ok := ParseNumber(s)
		if !ok || v != values[i] {
			t.Errorf("ParseNumber(%q) = %v/%v, want %v", s, v, ok, values[i])
		}
	}
}

func TestClassifiers(t *testing.T) {
	if !IsCurrencyString("$1,234.56") || IsCurrencyString("1234") || IsCurrencyString("$ not a number") {
		t.Error("IsCurrencyString misclassified")
	}
	if !IsPercentageString("12.5%") || IsPercentageString("12.5") || IsPercentageString("half%") {
		t.Error("IsPercentageString misclassified")
	}
	if !LooksLikeDate("2024-03-15") || !LooksLikeDate("01/02/2006") || LooksLikeDate("1234") || LooksLikeDate("Total") {
		t.Error("LooksLikeDate misclassified")
	}
}

func TestIsLikelyIdentifierValue(t *testing.T) {
	if !IsLikelyIdentifierValue("INV-2024-0001") {
		t.Error("expected invoice code to be identifier-like")
	}
	if IsLikelyIdentifierValue("") {
		t.Error("empty value is not identifier-like")
	}
	if IsLikelyIdentifierValue("Grand Total") || IsLikelyIdentifierValue("Subtotal") {
		t.Error("summary keywords are not identifier-like")
	}
	long := make([]byte, 81)
	for i := range long {
		long[i] = 'x'
	}
	if IsLikelyIdentifierValue(string(long)) {
		t.Error("values over 80 chars are not identifier-like")
	}
}
