package profile

import (
	"fmt"
	"math"
	"testing"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
)

func TestProfileColumn_Numerical(t *testing.T) {
	p := ProfileColumn("Revenue", []string{"1,200.50", "980.00", "(50.25)", ""}, DefaultConfig())

	if p.StructuralType != table.StructuralNumerical {
		t.Fatalf("StructuralType = %s, want numerical", p.StructuralType)
	}
	if p.SemanticType != table.SemanticNumeric {
		t.Errorf("SemanticType = %s, want numeric", p.SemanticType)
	}
	if math.Abs(p.MissingPercentage-25) > 1e-9 {
		t.Errorf("MissingPercentage = %v, want 25", p.MissingPercentage)
	}
	if p.Range == nil || p.Range.Min != -50.25 || p.Range.Max != 1200.5 {
		t.Errorf("Range = %+v", p.Range)
	}
	if !p.HasRole(table.RoleMeasure) {
		t.Error("numerical column should carry the measure role")
	}
}

func TestProfileColumn_Currency(t *testing.T) {
	p := ProfileColumn("Amount", []string{"$100", "$250.50", "$1,000"}, DefaultConfig())
	if p.SemanticType != table.SemanticCurrency {
		t.Errorf("SemanticType = %s, want currency", p.SemanticType)
	}
	if !p.HasRole(table.RoleCurrency) || !p.HasRole(table.RoleMeasure) {
		t.Errorf("roles = %v", p.Roles)
	}
}

func TestProfileColumn_Percentage(t *testing.T) {
	p := ProfileColumn("Margin", []string{"12%", "15.5%", "9%"}, DefaultConfig())
	if p.SemanticType != table.SemanticPercentage {
		t.Errorf("SemanticType = %s, want percentage", p.SemanticType)
	}
}

func TestProfileColumn_Date(t *testing.T) {
	p := ProfileColumn("Posted", []string{"2024-01-05", "2024-02-10", "2024-03-15"}, DefaultConfig())
	if p.SemanticType != table.SemanticDate {
		t.Errorf("SemanticType = %s, want date", p.SemanticType)
	}
	if !p.HasRole(table.RoleTime) || !p.HasRole(table.RoleDimension) {
		t.Errorf("roles = %v", p.Roles)
	}
	if p.StructuralType != table.StructuralCategorical {
		t.Errorf("dates are categorical, got %s", p.StructuralType)
	}
}

func TestProfileColumn_Identifier(t *testing.T) {
	values := []string{"INV-001", "INV-002", "INV-003", "INV-004"}
	p := ProfileColumn("Invoice", values, DefaultConfig())
	if p.SemanticType != table.SemanticIdentifier {
		t.Errorf("SemanticType = %s, want identifier", p.SemanticType)
	}
	if p.UniquenessRatio != 1 {
		t.Errorf("UniquenessRatio = %v, want 1", p.UniquenessRatio)
	}
	if !p.HasRole(table.RoleIdentifier) {
		t.Errorf("roles = %v", p.Roles)
	}
}

func TestProfileColumn_Categorical(t *testing.T) {
	values := []string{"North", "South", "North", "East", "north"}
	p := ProfileColumn("Region", values, DefaultConfig())
	if p.StructuralType != table.StructuralCategorical {
		t.Fatalf("StructuralType = %s", p.StructuralType)
	}
	if p.DistinctCount != 3 {
		t.Errorf("DistinctCount = %d, want 3 (case-insensitive)", p.DistinctCount)
	}
	if len(p.SampleValues) > 5 {
		t.Errorf("samples = %d, want at most 5", len(p.SampleValues))
	}
}

func TestProfileColumn_RepeatedNumericCodesStayNumerical(t *testing.T) {
	// Low-uniqueness numeric codes fail the identifier test and stay
	// numerical.
	values := []string{"1", "2", "1", "2", "1", "2", "1", "2"}
	p := ProfileColumn("Flag", values, DefaultConfig())
	if p.StructuralType != table.StructuralNumerical {
		t.Errorf("StructuralType = %s, want numerical", p.StructuralType)
	}
}

func TestProfileColumn_Empty(t *testing.T) {
	p := ProfileColumn("Empty", []string{"", "", ""}, DefaultConfig())
	if p.MissingPercentage != 100 {
		t.Errorf("MissingPercentage = %v, want 100", p.MissingPercentage)
	}
	if p.UniquenessRatio != 0 {
		t.Errorf("UniquenessRatio = %v, want 0", p.UniquenessRatio)
	}
	if p.StructuralType != table.StructuralCategorical {
		t.Errorf("StructuralType = %s", p.StructuralType)
	}
}

func TestProfileTable_SampleCap(t *testing.T) {
	ct := table.CanonicalTable{Columns: []string{"N"}}
	for i := 0; i < 20; i++ {
		ct.Records = append(ct.Records, table.Record{"N": fmt.Sprintf("%d", i)})
	}
	profiles := ProfileTable(ct, DefaultConfig())
	if len(profiles) != 1 {
		t.Fatalf("profiles = %d", len(profiles))
	}
	if len(profiles[0].SampleValues) != 5 {
		t.Errorf("samples = %d, want 5", len(profiles[0].SampleValues))
	}
}
