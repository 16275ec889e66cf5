package table

import (
	"fmt"
	"strings"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/core"
)

// Record is a single row keyed by column name. Records inside a table
// share the table's ordered column list; maps alone carry no order.
type Record map[string]string

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RawTable is the immutable upload snapshot: ordered rows of ordered
// raw cell strings, exactly as the delimited-text parser produced them.
type RawTable struct {
	rows [][]string
}

// NewRawTable copies rows into an immutable RawTable.
func NewRawTable(rows [][]string) RawTable {
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return RawTable{rows: copied}
}

// Rows returns the underlying rows. Callers must treat the result as
// read-only; RawTable is created once per upload and never mutated.
func (t RawTable) Rows() [][]string {
	return t.rows
}

// Len returns the number of rows.
func (t RawTable) Len() int {
	return len(t.rows)
}

// Width returns the widest row's cell count.
func (t RawTable) Width() int {
	max := 0
	for _, row := range t.rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

// Hash computes a content hash suitable for memoizing derived tables.
func (t RawTable) Hash() core.TableHash {
	return core.ComputeTableHash(t.rows)
}

// Generic converts the raw table into records keyed column_1..column_N
// where N is the widest row. Rows without a single non-empty cell are
// dropped. This gives a position-stable schema before header inference.
func (t RawTable) Generic() GenericTable {
	width := t.Width()
	columns := GenericColumns(width)

	records := make([]Record, 0, len(t.rows))
	for _, row := range t.rows {
		nonEmpty := false
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				nonEmpty = true
				break
			}
		}
		if !nonEmpty {
			continue
		}
		rec := make(Record, width)
		for i := 0; i < width; i++ {
			if i < len(row) {
				rec[columns[i]] = row[i]
			} else {
				rec[columns[i]] = ""
			}
		}
		records = append(records, rec)
	}

	return GenericTable{Columns: columns, Records: records}
}

// GenericColumns returns the positional column names column_1..column_n.
func GenericColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = GenericColumnName(i + 1)
	}
	return cols
}

// GenericColumnName returns the positional name for a 1-based index.
func GenericColumnName(pos int) string {
	return fmt.Sprintf("column_%d", pos)
}

// GenericTable holds records under positional column_N keys.
type GenericTable struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (t GenericTable) Len() int { return len(t.Records) }

// CanonicalTable holds records keyed by inferred, deduplicated header
// names. Each instance is one immutable snapshot; edits produce a new
// table rather than patching this one.
type CanonicalTable struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (t CanonicalTable) Len() int { return len(t.Records) }

// Column returns the ordered values of one column ("" for absent cells).
func (t CanonicalTable) Column(name string) []string {
	values := make([]string, len(t.Records))
	for i, rec := range t.Records {
		values[i] = rec[name]
	}
	return values
}

// HasColumn reports whether name is one of the table's columns.
func (t CanonicalTable) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, the basis for a new snapshot.
func (t CanonicalTable) Clone() CanonicalTable {
	out := CanonicalTable{
		Columns: append([]string(nil), t.Columns...),
		Records: make([]Record, len(t.Records)),
	}
	for i, rec := range t.Records {
		out.Records[i] = rec.Clone()
	}
	return out
}

// Metadata describes how a CanonicalTable was recovered from raw rows.
type Metadata struct {
	Header             []string          `json:"header"`
	RawHeader          []string          `json:"raw_header"`
	HeaderIndex        *int              `json:"header_index,omitempty"`
	RowsBeforeFilter   int               `json:"rows_before_filter"`
	OriginalRows       int               `json:"original_rows"`
	CleanedRows        int               `json:"cleaned_rows"`
	RemovedSummaryRows int               `json:"removed_summary_rows"`
	LeadingRows        [][]string        `json:"leading_rows,omitempty"`
	ReportTitle        string            `json:"report_title,omitempty"`
	ContextRows        [][]string        `json:"context_rows,omitempty"`
	GenericToCanonical map[string]string `json:"generic_to_canonical,omitempty"`
	IdentifierColumns  []string          `json:"identifier_columns,omitempty"`
}

// MaxLeadingRows caps how many leading rows metadata retains.
const MaxLeadingRows = 10

// MaxContextRows caps how many raw context rows metadata retains.
const MaxContextRows = 20
