package app

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/structure"
)

// Report-level facts hiding in crosstab header text.
var (
	reportingPeriodRe = regexp.MustCompile(`(?i)\b(?:FY\s*\d{2,4}|(?:19|20)\d{2}(?:\s*[-/]\s*(?:19|20)?\d{2})?|Q[1-4]\s*[-/ ]?\s*\d{2,4})\b`)
	currencyCodeRe    = regexp.MustCompile(`(?i)\b(USD|EUR|GBP|JPY|MYR|SGD|AUD|CAD|RM)\b`)
	currencySymbolRe  = regexp.MustCompile(`[$€£¥]`)
	reportTypeRe      = regexp.MustCompile(`(?i)\b(balance sheet|income statement|profit\s*(?:&|and)\s*loss|p&l|cash flow|trial balance|aging|general ledger)\b`)
)

const (
	defaultPivotFieldLabel = "Period"
	defaultValueFieldLabel = "Value"
	unpivotIdentifierCols  = 2
)

// unpivot melts crosstab metric columns into tidy rows: the first two
// generic columns are identifiers, later columns inside the hinted
// pivot range (else all) become one output record per numeric cell.
func (p *Pipeline) unpivot(state *pipelineState, hints plan.Hints) (normalized, *ReportContext, string) {
	width := maxWidth(state.dataRows)
	if w := maxWidth(state.headerRows); w > width {
		width = w
	}
	if width <= unpivotIdentifierCols {
		return normalized{}, nil, "table too narrow to unpivot"
	}

	idCols := unpivotIdentifierCols
	idLabels := identifierLabels(hints, state.canonical, idCols)

	pivotStart, pivotEnd := pivotRange(hints, width)
	pivotLabels := joinHeaderRows(state.headerRows, width)

	pivotField := hints.PivotFieldLabel
	if pivotField == "" {
		pivotField = defaultPivotFieldLabel
	}
	valueField := hints.ValueFieldLabel
	if valueField == "" {
		valueField = defaultValueFieldLabel
	}

	columns := append(append([]string(nil), idLabels...), pivotField, valueField)

	original := 0
	records := make([]table.Record, 0, len(state.dataRows))
	for _, row := range state.dataRows {
		if joinNonEmpty(row) == "" {
			continue
		}
		original++
		if hints.ExcludeTotals && structure.IsKeywordSummaryRow(row, p.classifier) {
			continue
		}

		ids := make([]string, idCols)
		anyID := false
		for i := 0; i < idCols; i++ {
			if i < len(row) {
				ids[i] = strings.TrimSpace(row[i])
			}
			if ids[i] != "" {
				anyID = true
			}
		}
		if !anyID {
			continue
		}

		for col := pivotStart; col <= pivotEnd && col <= width; col++ {
			idx := col - 1
			if idx >= len(row) {
				continue
			}
			value, ok := numtoken.ParseNumber(row[idx])
			if !ok {
				continue
			}
			rec := make(table.Record, len(columns))
			for i, label := range idLabels {
				rec[label] = ids[i]
			}
			rec[pivotField] = pivotLabel(pivotLabels, idx)
			rec[valueField] = strconv.FormatFloat(value, 'f', -1, 64)
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		return normalized{}, nil, "unpivot produced no rows"
	}

	// Leading banner text first: the reporting period usually lives in
	// the title, not in the per-column labels.
	var contextParts []string
	for _, row := range state.leading {
		contextParts = append(contextParts, joinNonEmpty(row))
	}
	contextParts = append(contextParts, joinHeaderRows(state.headerRows, width)...)
	rc := extractReportContext(strings.Join(contextParts, " "))

	ct := table.CanonicalTable{Columns: columns, Records: records}
	headerStart := state.headerStart
	meta := table.Metadata{
		Header:             columns,
		RawHeader:          state.rawHeader,
		HeaderIndex:        &headerStart,
		OriginalRows:       original,
		CleanedRows:        len(records),
		RemovedSummaryRows: original - countDistinctSourceRows(records, idLabels),
		LeadingRows:        capRows(state.leading, table.MaxLeadingRows),
		ReportTitle:        state.title,
		GenericToCanonical: state.mapper.Mapping(),
		IdentifierColumns:  idLabels,
	}
	if meta.RemovedSummaryRows < 0 {
		meta.RemovedSummaryRows = 0
	}
	return normalized{table: ct, meta: meta}, rc, ""
}

// identifierLabels picks display labels for the identifier columns:
// hinted labels first, then resolved header names, then placeholders.
func identifierLabels(hints plan.Hints, canonical []string, idCols int) []string {
	labels := make([]string, idCols)
	for i := 0; i < idCols; i++ {
		switch {
		case i < len(hints.IdentifierLabels) && strings.TrimSpace(hints.IdentifierLabels[i]) != "":
			labels[i] = strings.TrimSpace(hints.IdentifierLabels[i])
		case i < len(canonical) && !strings.HasPrefix(canonical[i], "Column "):
			labels[i] = canonical[i]
		default:
			labels[i] = "Identifier " + strconv.Itoa(i+1)
		}
	}
	return labels
}

// pivotRange resolves the hinted 1-based pivot column range, defaulting
// to every column after the identifiers.
func pivotRange(hints plan.Hints, width int) (int, int) {
	start := unpivotIdentifierCols + 1
	end := width
	if hints.PivotStart > unpivotIdentifierCols {
		start = hints.PivotStart
	}
	if hints.PivotEnd >= start && hints.PivotEnd <= width {
		end = hints.PivotEnd
	}
	return start, end
}

func pivotLabel(labels []string, idx int) string {
	if idx < len(labels) && labels[idx] != "" {
		return labels[idx]
	}
	return "Column " + strconv.Itoa(idx+1)
}

// countDistinctSourceRows estimates how many source rows contributed at
// least one output record.
func countDistinctSourceRows(records []table.Record, idLabels []string) int {
	seen := make(map[string]struct{})
	for _, rec := range records {
		var key strings.Builder
		for _, label := range idLabels {
			key.WriteString(rec[label])
			key.WriteByte(0x1f)
		}
		seen[key.String()] = struct{}{}
	}
	return len(seen)
}

// extractReportContext pulls reporting period, currency and report type
// out of flattened header text.
func extractReportContext(text string) *ReportContext {
	rc := &ReportContext{}
	if m := reportingPeriodRe.FindString(text); m != "" {
		rc.ReportingPeriod = strings.TrimSpace(m)
	}
	if m := currencyCodeRe.FindString(text); m != "" {
		rc.Currency = strings.ToUpper(m)
	} else if m := currencySymbolRe.FindString(text); m != "" {
		rc.Currency = m
	}
	if m := reportTypeRe.FindString(text); m != "" {
		rc.ReportType = m
	}
	if rc.ReportingPeriod == "" && rc.Currency == "" && rc.ReportType == "" {
		return nil
	}
	return rc
}
