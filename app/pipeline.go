// Package app orchestrates the three-stage cleaning pipeline driven by
// a free-text stage plan from an external planner.
package app

import (
	"fmt"
	"strings"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/alias"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/logging"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/structure"
)

// StageName identifies a pipeline stage.
type StageName string

const (
	StageTitleExtraction   StageName = "titleExtraction"
	StageHeaderResolution  StageName = "headerResolution"
	StageDataNormalization StageName = "dataNormalization"
)

// StageStatus is the lifecycle state of a stage.
type StageStatus string

const (
	StatusPending    StageStatus = "pending"
	StatusInProgress StageStatus = "in_progress"
	StatusReady      StageStatus = "ready"
	StatusAbort      StageStatus = "abort"
)

// StageLog is one structured log entry, the pipeline's sole
// observability side channel.
type StageLog struct {
	Stage   StageName   `json:"stage"`
	Status  StageStatus `json:"status"`
	Message string      `json:"message"`
}

// ReportContext carries report-level facts recovered from header text
// during an unpivot.
type ReportContext struct {
	ReportingPeriod string `json:"reporting_period,omitempty"`
	Currency        string `json:"currency,omitempty"`
	ReportType      string `json:"report_type,omitempty"`
}

// Result is the pipeline outcome. An unsafe transform is refused with
// Applied=false and a reason; that is a typed no-op, not an error.
type Result struct {
	Applied       bool                      `json:"applied"`
	Reason        string                    `json:"reason,omitempty"`
	Table         table.CanonicalTable      `json:"table"`
	Meta          table.Metadata            `json:"meta"`
	Hints         plan.Hints                `json:"hints"`
	Unpivoted     bool                      `json:"unpivoted,omitempty"`
	ReportContext *ReportContext            `json:"report_context,omitempty"`
	Stages        map[StageName]StageStatus `json:"stages"`
	Logs          []StageLog                `json:"logs"`
}

// Config defines the pipeline thresholds
type Config struct {
	// MinLeadingStrip is the leading-row strip budget used when the
	// plan hints no count.
	MinLeadingStrip int `json:"min_leading_strip" mapstructure:"min_leading_strip"`
	// MaxLeadingCells is the non-empty cell ceiling for a row to count
	// as leading metadata.
	MaxLeadingCells int `json:"max_leading_cells" mapstructure:"max_leading_cells"`
	// IdentifierUniqueness is the uniqueness floor for identifier
	// column detection during normalization.
	IdentifierUniqueness float64 `json:"identifier_uniqueness" mapstructure:"identifier_uniqueness"`
	// UnpivotHeaderRows is the header depth assumed when an unpivot is
	// hinted without an explicit header-row count.
	UnpivotHeaderRows int `json:"unpivot_header_rows" mapstructure:"unpivot_header_rows"`
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() Config {
	return Config{
		MinLeadingStrip:      3,
		MaxLeadingCells:      3,
		IdentifierUniqueness: 0.8,
		UnpivotHeaderRows:    2,
	}
}

// Pipeline executes a stage plan against a raw table.
type Pipeline struct {
	cfg        Config
	detector   structure.DetectorConfig
	classifier structure.ClassifierConfig
	logger     *logging.Logger
}

// NewPipeline creates a pipeline with the given configuration.
func NewPipeline(cfg Config, det structure.DetectorConfig, cls structure.ClassifierConfig, logger *logging.Logger) *Pipeline {
	if cfg.MinLeadingStrip <= 0 {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Pipeline{cfg: cfg, detector: det, classifier: cls, logger: logger}
}

// Run walks titleExtraction -> headerResolution -> dataNormalization.
// The stage plan is consumed only through its extracted hints.
func (p *Pipeline) Run(raw table.RawTable, sp plan.StagePlan) Result {
	hints := ExtractHints(sp)
	result := Result{
		Hints: hints,
		Stages: map[StageName]StageStatus{
			StageTitleExtraction:   StatusPending,
			StageHeaderResolution:  StatusPending,
			StageDataNormalization: StatusPending,
		},
	}

	rows := raw.Rows()

	// Stage 1: strip leading metadata rows, recover the title.
	p.transition(&result, StageTitleExtraction, StatusInProgress, "scanning leading rows")
	state, ok := p.extractTitle(rows, hints)
	if !ok {
		return p.abort(result, StageTitleExtraction, "title extraction would remove every row")
	}
	p.transition(&result, StageTitleExtraction, StatusReady,
		fmt.Sprintf("stripped %d leading rows", len(state.leading)))

	// Stage 2: resolve the header block and build the alias mapper.
	p.transition(&result, StageHeaderResolution, StatusInProgress, "resolving header rows")
	p.resolveHeader(state, hints)
	if len(state.dataRows) == 0 {
		return p.abort(result, StageHeaderResolution, "no data rows remain below the header")
	}
	p.transition(&result, StageHeaderResolution, StatusReady,
		fmt.Sprintf("header resolved to %d columns", len(state.canonical)))

	// Stage 3: normalize, standard or unpivot.
	p.transition(&result, StageDataNormalization, StatusInProgress, "normalizing data rows")
	if hints.Unpivot {
		out, rc, reason := p.unpivot(state, hints)
		if reason != "" {
			return p.abort(result, StageDataNormalization, reason)
		}
		result.Unpivoted = true
		result.ReportContext = rc
		result.Table = out.table
		result.Meta = out.meta
	} else {
		out, reason := p.normalizeStandard(state, hints)
		if reason != "" {
			return p.abort(result, StageDataNormalization, reason)
		}
		result.Table = out.table
		result.Meta = out.meta
	}
	result.Meta.RowsBeforeFilter = raw.Len()
	result.Meta.ContextRows = firstRows(rows, table.MaxContextRows)
	p.transition(&result, StageDataNormalization, StatusReady,
		fmt.Sprintf("normalized %d rows", result.Table.Len()))

	result.Applied = true
	return result
}

// pipelineState is the working set threaded between stages.
type pipelineState struct {
	leading     [][]string
	title       string
	headerRows  [][]string
	headerStart int
	rawHeader   []string
	canonical   []string
	mapper      *alias.Mapper
	dataRows    [][]string
}

// extractTitle strips up to max(hinted, MinLeadingStrip) leading rows
// that are empty, metadata-narrow, or match a known leading fingerprint.
// Returns false when stripping would empty the table.
func (p *Pipeline) extractTitle(rows [][]string, hints plan.Hints) (*pipelineState, bool) {
	budget := p.cfg.MinLeadingStrip
	if hints.LeadingRowCount > budget {
		budget = hints.LeadingRowCount
	}

	expected := expectedColumns(rows, p.detector)
	state := &pipelineState{}
	i := 0
	for i < len(rows) && len(state.leading) < budget {
		row := rows[i]
		if !p.isLeadingMetadataRow(row, expected) {
			break
		}
		state.leading = append(state.leading, append([]string(nil), row...))
		if state.title == "" {
			state.title = joinNonEmpty(row)
		}
		i++
	}

	if i >= len(rows) {
		return nil, false
	}
	state.headerStart = i
	state.dataRows = rows[i:]
	return state, true
}

// isLeadingMetadataRow: empty, or a narrow all-non-numeric row, or a
// known banner/stamp/page fingerprint. Rows wide enough to be the
// header itself never qualify.
func (p *Pipeline) isLeadingMetadataRow(row []string, expected int) bool {
	nonEmpty := 0
	numeric := 0
	for _, cell := range row {
		s := strings.TrimSpace(cell)
		if s == "" {
			continue
		}
		nonEmpty++
		if numtoken.LooksNumeric(s) {
			numeric++
		}
	}
	if nonEmpty == 0 {
		return true
	}
	if structure.MatchesLeadingFingerprint(row) {
		return true
	}
	if expected > 0 && nonEmpty >= expected {
		return false
	}
	return nonEmpty <= p.cfg.MaxLeadingCells && numeric == 0
}

// resolveHeader consumes the hinted header-row count, or falls back to
// the structure detector over the remaining rows.
func (p *Pipeline) resolveHeader(state *pipelineState, hints plan.Hints) {
	remainder := state.dataRows

	count := hints.HeaderRowCount
	if count == 0 && hints.Unpivot {
		count = p.cfg.UnpivotHeaderRows
		if count <= 0 {
			count = DefaultConfig().UnpivotHeaderRows
		}
	}

	if count > 0 && count <= len(remainder) {
		state.headerRows = remainder[:count]
		state.dataRows = remainder[count:]
		state.rawHeader = remainder[0]
		state.canonical = structure.CanonicalNames(joinHeaderRows(state.headerRows, maxWidth(remainder)))
	} else {
		det := structure.DetectStructure(remainder, p.detector)
		state.headerRows = [][]string{det.RawHeader}
		state.rawHeader = det.RawHeader
		state.canonical = det.CanonicalHeader
		state.headerStart += det.HeaderIndex
		if state.title == "" {
			state.title = det.Title
		}
		for _, row := range det.LeadingRows {
			state.leading = append(state.leading, append([]string(nil), row...))
		}
		state.dataRows = remainder[min(det.HeaderIndex+1, len(remainder)):]
	}

	// Data rows can be wider than the header block.
	width := maxWidth(state.dataRows)
	if width > len(state.canonical) {
		padded := make([]string, width)
		copy(padded, state.rawHeader)
		state.canonical = structure.CanonicalNames(padded)
	}
	state.mapper = alias.NewMapper(state.canonical)
}

type normalized struct {
	table table.CanonicalTable
	meta  table.Metadata
}

// normalizeStandard applies the header mapping, drops keyword summary
// rows and detects identifier columns.
func (p *Pipeline) normalizeStandard(state *pipelineState, hints plan.Hints) (normalized, string) {
	columns := state.mapper.CanonicalColumns()

	original := 0
	removed := 0
	records := make([]table.Record, 0, len(state.dataRows))
	for _, row := range state.dataRows {
		if joinNonEmpty(row) == "" {
			continue
		}
		original++
		if structure.IsKeywordSummaryRow(row, p.classifier) {
			removed++
			continue
		}
		rec := make(table.Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = strings.TrimSpace(row[i])
			} else {
				rec[col] = ""
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return normalized{}, "normalization removed every data row"
	}

	ct := table.CanonicalTable{Columns: columns, Records: records}
	headerStart := state.headerStart
	meta := table.Metadata{
		Header:             columns,
		RawHeader:          state.rawHeader,
		HeaderIndex:        &headerStart,
		OriginalRows:       original,
		CleanedRows:        len(records),
		RemovedSummaryRows: removed,
		LeadingRows:        capRows(state.leading, table.MaxLeadingRows),
		ReportTitle:        state.title,
		GenericToCanonical: state.mapper.Mapping(),
		IdentifierColumns:  identifierColumns(ct, p.cfg.IdentifierUniqueness),
	}
	return normalized{table: ct, meta: meta}, ""
}

// identifierColumns flags columns whose uniqueness ratio clears the
// configured floor.
func identifierColumns(t table.CanonicalTable, floor float64) []string {
	if floor <= 0 {
		floor = DefaultConfig().IdentifierUniqueness
	}
	var out []string
	for _, col := range t.Columns {
		nonEmpty := 0
		distinct := make(map[string]struct{})
		for _, rec := range t.Records {
			v := strings.TrimSpace(rec[col])
			if v == "" {
				continue
			}
			nonEmpty++
			distinct[strings.ToLower(v)] = struct{}{}
		}
		if nonEmpty == 0 {
			continue
		}
		if float64(len(distinct))/float64(nonEmpty) >= floor {
			out = append(out, col)
		}
	}
	return out
}

func (p *Pipeline) transition(result *Result, stage StageName, status StageStatus, message string) {
	result.Stages[stage] = status
	result.Logs = append(result.Logs, StageLog{Stage: stage, Status: status, Message: message})
	p.logger.Info("pipeline stage=%s status=%s: %s", stage, status, message)
}

func (p *Pipeline) abort(result Result, stage StageName, reason string) Result {
	result.Stages[stage] = StatusAbort
	result.Logs = append(result.Logs, StageLog{Stage: stage, Status: StatusAbort, Message: reason})
	p.logger.Warn("pipeline stage=%s aborted: %s", stage, reason)
	result.Applied = false
	result.Reason = reason
	return result
}

// Helpers

func expectedColumns(rows [][]string, cfg structure.DetectorConfig) int {
	return structure.DetectStructure(rows, cfg).ExpectedColumns
}

func joinNonEmpty(row []string) string {
	var parts []string
	for _, cell := range row {
		if s := strings.TrimSpace(cell); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// joinHeaderRows merges a multi-row header block into one label per
// column by joining the stacked cells with a space.
func joinHeaderRows(headerRows [][]string, width int) []string {
	if w := maxWidth(headerRows); w > width {
		width = w
	}
	labels := make([]string, width)
	for col := 0; col < width; col++ {
		var parts []string
		for _, row := range headerRows {
			if col < len(row) {
				if s := strings.TrimSpace(row[col]); s != "" {
					parts = append(parts, s)
				}
			}
		}
		labels[col] = strings.Join(parts, " ")
	}
	return labels
}

func maxWidth(rows [][]string) int {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func capRows(rows [][]string, n int) [][]string {
	if len(rows) <= n {
		return rows
	}
	return rows[:n]
}

func firstRows(rows [][]string, n int) [][]string {
	if len(rows) < n {
		n = len(rows)
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = append([]string(nil), rows[i]...)
	}
	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
