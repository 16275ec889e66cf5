// Package profile derives per-column semantic/statistical profiles from
// a cleaned table in a single pass per column.
package profile

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
)

// Config defines the profiling thresholds
type Config struct {
	SampleLimit          int     `json:"sample_limit" mapstructure:"sample_limit"`                     // sample values retained per column
	DateRatio            float64 `json:"date_ratio" mapstructure:"date_ratio"`                         // share of date-shaped values for semantic date
	CurrencyRatio        float64 `json:"currency_ratio" mapstructure:"currency_ratio"`                 // share of currency-tagged values
	PercentageRatio      float64 `json:"percentage_ratio" mapstructure:"percentage_ratio"`             // share of percent-tagged values
	IdentifierRatio      float64 `json:"identifier_ratio" mapstructure:"identifier_ratio"`             // share of identifier-like values
	IdentifierUniqueness float64 `json:"identifier_uniqueness" mapstructure:"identifier_uniqueness"`   // uniqueness floor for identifier columns
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() Config {
	return Config{
		SampleLimit:          5,
		DateRatio:            0.6,
		CurrencyRatio:        0.6,
		PercentageRatio:      0.6,
		IdentifierRatio:      0.5,
		IdentifierUniqueness: 0.5,
	}
}

// columnScan accumulates the single-pass counters for one column.
type columnScan struct {
	nonEmpty   int
	numeric    int
	currency   int
	percentage int
	date       int
	identifier int
	samples    []string
	distinct   map[string]struct{}
	values     []float64
}

// ProfileTable profiles every column of a cleaned table.
func ProfileTable(t table.CanonicalTable, cfg Config) []table.ColumnProfile {
	profiles := make([]table.ColumnProfile, 0, len(t.Columns))
	for _, col := range t.Columns {
		profiles = append(profiles, ProfileColumn(col, t.Column(col), cfg))
	}
	return profiles
}

// ProfileColumn profiles a single column's ordered values.
func ProfileColumn(name string, values []string, cfg Config) table.ColumnProfile {
	if cfg.SampleLimit <= 0 {
		cfg = DefaultConfig()
	}

	scan := columnScan{distinct: make(map[string]struct{})}
	for _, raw := range values {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		scan.nonEmpty++
		if num, ok := numtoken.ParseNumber(v); ok {
			scan.numeric++
			scan.values = append(scan.values, num)
		}
		if numtoken.IsCurrencyString(v) {
			scan.currency++
		}
		if numtoken.IsPercentageString(v) {
			scan.percentage++
		}
		if numtoken.LooksLikeDate(v) {
			scan.date++
		}
		if isCodeLikeValue(v) {
			scan.identifier++
		}
		if len(scan.samples) < cfg.SampleLimit {
			scan.samples = append(scan.samples, v)
		}
		scan.distinct[strings.ToLower(v)] = struct{}{}
	}

	profile := table.ColumnProfile{
		Name:          name,
		SampleValues:  scan.samples,
		DistinctCount: len(scan.distinct),
	}

	rowCount := len(values)
	if rowCount > 0 {
		profile.MissingPercentage = 100 * (1 - float64(scan.nonEmpty)/float64(rowCount))
	}
	if scan.nonEmpty > 0 {
		profile.UniquenessRatio = float64(len(scan.distinct)) / float64(scan.nonEmpty)
	}

	isIdentifier := scan.nonEmpty > 0 &&
		ratio(scan.identifier, scan.nonEmpty) >= cfg.IdentifierRatio &&
		profile.UniquenessRatio >= cfg.IdentifierUniqueness

	if scan.nonEmpty > 0 && scan.numeric == scan.nonEmpty && !isIdentifier {
		profile.StructuralType = table.StructuralNumerical
	} else {
		profile.StructuralType = table.StructuralCategorical
	}

	profile.SemanticType = semanticType(scan, cfg, isIdentifier, profile.StructuralType)
	profile.Roles = deriveRoles(profile, isIdentifier)

	if profile.StructuralType == table.StructuralNumerical && len(scan.values) > 0 {
		profile.Range = numericRange(scan.values)
	}

	return profile
}

// semanticType applies the priority order
// date > currency > percentage > identifier > numeric > text.
func semanticType(scan columnScan, cfg Config, isIdentifier bool, structural table.StructuralType) table.SemanticType {
	switch {
	case ratio(scan.date, scan.nonEmpty) >= cfg.DateRatio:
		return table.SemanticDate
	case ratio(scan.currency, scan.nonEmpty) >= cfg.CurrencyRatio:
		return table.SemanticCurrency
	case ratio(scan.percentage, scan.nonEmpty) >= cfg.PercentageRatio:
		return table.SemanticPercentage
	case isIdentifier:
		return table.SemanticIdentifier
	case structural == table.StructuralNumerical:
		return table.SemanticNumeric
	default:
		return table.SemanticText
	}
}

// deriveRoles is mechanical: numerical columns are measures, everything
// else a dimension, plus identifier/time/currency/percentage tags.
func deriveRoles(p table.ColumnProfile, isIdentifier bool) []table.ColumnRole {
	var roles []table.ColumnRole
	if p.StructuralType == table.StructuralNumerical {
		roles = append(roles, table.RoleMeasure)
	} else {
		roles = append(roles, table.RoleDimension)
	}
	if isIdentifier && p.SemanticType == table.SemanticIdentifier {
		roles = append(roles, table.RoleIdentifier)
	}
	switch p.SemanticType {
	case table.SemanticDate:
		roles = append(roles, table.RoleTime)
	case table.SemanticCurrency:
		roles = append(roles, table.RoleCurrency)
	case table.SemanticPercentage:
		roles = append(roles, table.RolePercentage)
	}
	return roles
}

func numericRange(values []float64) *table.NumericRange {
	min, err := stats.Min(values)
	if err != nil {
		return nil
	}
	max, _ := stats.Max(values)
	mean, _ := stats.Mean(values)
	stdDev := 0.0
	if len(values) > 1 {
		stdDev, _ = stats.StandardDeviationSample(values)
	}
	return &table.NumericRange{Min: min, Max: max, Mean: mean, StdDev: stdDev}
}

// isCodeLikeValue narrows the identifier hint to code-like values:
// identifier-shaped per the normalizer, but never currency/percent
// amounts or fractional numbers, which are measures.
func isCodeLikeValue(v string) bool {
	if !numtoken.IsLikelyIdentifierValue(v) {
		return false
	}
	if numtoken.IsCurrencyString(v) || numtoken.IsPercentageString(v) {
		return false
	}
	if num, ok := numtoken.ParseNumber(v); ok && num != math.Trunc(num) {
		return false
	}
	return true
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
