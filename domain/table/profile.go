package table

// StructuralType classifies a column by how its values behave.
type StructuralType string

const (
	StructuralNumerical   StructuralType = "numerical"
	StructuralCategorical StructuralType = "categorical"
)

// SemanticType classifies what a column's values mean.
type SemanticType string

const (
	SemanticText       SemanticType = "text"
	SemanticDate       SemanticType = "date"
	SemanticCurrency   SemanticType = "currency"
	SemanticPercentage SemanticType = "percentage"
	SemanticIdentifier SemanticType = "identifier"
	SemanticNumeric    SemanticType = "numeric"
)

// ColumnRole tags how a column is expected to be used in analysis.
type ColumnRole string

const (
	RoleMeasure    ColumnRole = "measure"
	RoleDimension  ColumnRole = "dimension"
	RoleIdentifier ColumnRole = "identifier"
	RoleTime       ColumnRole = "time"
	RoleCurrency   ColumnRole = "currency"
	RolePercentage ColumnRole = "percentage"
)

// NumericRange summarizes the parsed values of a numerical column.
type NumericRange struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ColumnProfile is the per-column semantic/statistical profile derived
// from one pass over a cleaned table.
type ColumnProfile struct {
	Name              string         `json:"name"`
	StructuralType    StructuralType `json:"structural_type"`
	SemanticType      SemanticType   `json:"semantic_type"`
	MissingPercentage float64        `json:"missing_percentage"` // 0..100
	UniquenessRatio   float64        `json:"uniqueness_ratio"`   // 0..1
	Roles             []ColumnRole   `json:"roles"`
	SampleValues      []string       `json:"sample_values,omitempty"` // at most 5
	Range             *NumericRange  `json:"range,omitempty"`         // numerical columns
	DistinctCount     int            `json:"distinct_count"`          // categorical columns
}

// HasRole reports whether the profile carries the given role tag.
func (p ColumnProfile) HasRole(role ColumnRole) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsMeasure reports whether the column is usable as a value column.
func (p ColumnProfile) IsMeasure() bool {
	return p.StructuralType == StructuralNumerical
}
