package structure

import (
	"strings"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
)

// BuildCanonicalTable recovers a CanonicalTable plus its metadata from
// a raw upload: detect the header, name the columns, separate leading
// rows, and drop structural summary rows. The keyword summary pass is
// intentionally not applied here; it belongs to the normalization
// pipeline where its keyword list is configurable.
func BuildCanonicalTable(raw table.RawTable, cfg DetectorConfig) (table.CanonicalTable, table.Metadata) {
	rows := raw.Rows()
	det := DetectStructure(rows, cfg)

	dataRows := rows[min(det.HeaderIndex+1, len(rows)):]

	// Data rows may be wider than the header; extend canonical names
	// positionally so no cell is dropped.
	width := len(det.CanonicalHeader)
	for _, row := range dataRows {
		if len(row) > width {
			width = len(row)
		}
	}
	columns := extendHeader(det.RawHeader, width)

	original := 0
	removed := 0
	records := make([]table.Record, 0, len(dataRows))
	for _, row := range dataRows {
		if nonEmptyCount(row) == 0 {
			continue
		}
		original++
		if IsStructuralSummaryRow(row) {
			removed++
			continue
		}
		rec := make(table.Record, width)
		for i, col := range columns {
			if i < len(row) {
				rec[col] = strings.TrimSpace(row[i])
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	headerIdx := det.HeaderIndex
	meta := table.Metadata{
		Header:             columns,
		RawHeader:          det.RawHeader,
		RowsBeforeFilter:   len(rows),
		OriginalRows:       original,
		CleanedRows:        len(records),
		RemovedSummaryRows: removed,
		LeadingRows:        det.LeadingRows,
		ReportTitle:        det.Title,
		ContextRows:        contextRows(rows),
		GenericToCanonical: genericMapping(columns),
	}
	if det.HeaderFound {
		meta.HeaderIndex = &headerIdx
	}

	return table.CanonicalTable{Columns: columns, Records: records}, meta
}

// extendHeader canonicalizes the raw header padded out to width cells.
func extendHeader(rawHeader []string, width int) []string {
	padded := make([]string, width)
	copy(padded, rawHeader)
	return CanonicalNames(padded)
}

// contextRows keeps the first raw rows as planner context.
func contextRows(rows [][]string) [][]string {
	n := min(len(rows), table.MaxContextRows)
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = append([]string(nil), rows[i]...)
	}
	return out
}

// genericMapping maps column_1..column_N onto the canonical names.
func genericMapping(columns []string) map[string]string {
	m := make(map[string]string, len(columns))
	for i, col := range columns {
		m[table.GenericColumnName(i+1)] = col
	}
	return m
}
