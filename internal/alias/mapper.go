// Package alias maps position-stable generic column names
// (column_1..column_N) onto inferred canonical header names and back.
package alias

import (
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
)

// Mapper is a bidirectional generic<->canonical header mapping.
type Mapper struct {
	toCanonical map[string]string
	toGeneric   map[string]string
	canonical   []string
}

// NewMapper builds a mapper for ordered canonical names: column_i maps
// onto canonical[i-1].
func NewMapper(canonical []string) *Mapper {
	m := &Mapper{
		toCanonical: make(map[string]string, len(canonical)),
		toGeneric:   make(map[string]string, len(canonical)),
		canonical:   append([]string(nil), canonical...),
	}
	for i, name := range canonical {
		generic := table.GenericColumnName(i + 1)
		m.toCanonical[generic] = name
		m.toGeneric[name] = generic
	}
	return m
}

// Canonical resolves a generic name to its canonical name.
func (m *Mapper) Canonical(generic string) (string, bool) {
	name, ok := m.toCanonical[generic]
	return name, ok
}

// Generic resolves a canonical name back to its generic name.
func (m *Mapper) Generic(canonical string) (string, bool) {
	name, ok := m.toGeneric[canonical]
	return name, ok
}

// CanonicalColumns returns the ordered canonical names.
func (m *Mapper) CanonicalColumns() []string {
	return append([]string(nil), m.canonical...)
}

// Mapping returns a copy of the generic->canonical map for metadata.
func (m *Mapper) Mapping() map[string]string {
	out := make(map[string]string, len(m.toCanonical))
	for k, v := range m.toCanonical {
		out[k] = v
	}
	return out
}

// Apply rewrites a generic-keyed record onto canonical keys. Keys that
// are not generic names pass through unchanged, so applying the mapper
// twice is a no-op.
func (m *Mapper) Apply(rec table.Record) table.Record {
	out := make(table.Record, len(rec))
	for key, value := range rec {
		if canonical, ok := m.toCanonical[key]; ok {
			out[canonical] = value
		} else {
			out[key] = value
		}
	}
	return out
}

// ApplyAll rewrites a generic table onto canonical columns.
func (m *Mapper) ApplyAll(t table.GenericTable) table.CanonicalTable {
	records := make([]table.Record, len(t.Records))
	for i, rec := range t.Records {
		records[i] = m.Apply(rec)
	}
	columns := make([]string, 0, len(t.Columns))
	for _, generic := range t.Columns {
		if canonical, ok := m.toCanonical[generic]; ok {
			columns = append(columns, canonical)
		} else {
			columns = append(columns, generic)
		}
	}
	return table.CanonicalTable{Columns: columns, Records: records}
}
