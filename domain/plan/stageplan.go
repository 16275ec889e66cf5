package plan

import "strings"

// StageDirective is one stage of a free-text cleaning plan authored by
// an external planner. Every field is unconstrained prose; the pipeline
// treats it purely as a hint source and never executes it.
type StageDirective struct {
	Goal               string   `json:"goal"`
	Checkpoints        []string `json:"checkpoints,omitempty"`
	Heuristics         []string `json:"heuristics,omitempty"`
	FallbackStrategies []string `json:"fallbackStrategies,omitempty"`
	ExpectedArtifacts  []string `json:"expectedArtifacts,omitempty"`
	NextAction         string   `json:"nextAction,omitempty"`
	Status             string   `json:"status,omitempty"`
	LogMessage         string   `json:"logMessage,omitempty"`
}

// Text flattens the directive's prose into one scannable blob.
func (d StageDirective) Text() string {
	parts := make([]string, 0, 7+len(d.Checkpoints)+len(d.Heuristics)+len(d.FallbackStrategies)+len(d.ExpectedArtifacts))
	parts = append(parts, d.Goal)
	parts = append(parts, d.Checkpoints...)
	parts = append(parts, d.Heuristics...)
	parts = append(parts, d.FallbackStrategies...)
	parts = append(parts, d.ExpectedArtifacts...)
	parts = append(parts, d.NextAction, d.LogMessage)
	return strings.Join(parts, "\n")
}

// StagePlan is the 3-phase textual cleaning plan.
type StagePlan struct {
	TitleExtraction   StageDirective `json:"titleExtraction"`
	HeaderResolution  StageDirective `json:"headerResolution"`
	DataNormalization StageDirective `json:"dataNormalization"`
}

// Text flattens the whole plan's prose.
func (p StagePlan) Text() string {
	return strings.Join([]string{
		p.TitleExtraction.Text(),
		p.HeaderResolution.Text(),
		p.DataNormalization.Text(),
	}, "\n")
}

// Hints is the typed result of scanning a StagePlan's prose once.
// Downstream stages consume only this structure and never re-parse the
// plan text.
type Hints struct {
	// LeadingRowCount is the hinted number of metadata rows to strip
	// before the header (0 = no hint).
	LeadingRowCount int `json:"leading_row_count,omitempty"`
	// HeaderRowCount is the hinted number of header rows (0 = no hint).
	HeaderRowCount int `json:"header_row_count,omitempty"`
	// Unpivot requests melting wide metric columns into tidy rows.
	Unpivot bool `json:"unpivot,omitempty"`
	// ExcludeTotals requests dropping keyword-flagged summary rows.
	ExcludeTotals bool `json:"exclude_totals,omitempty"`
	// PivotStart/PivotEnd bound the pivoted generic columns, 1-based
	// inclusive (0 = unset).
	PivotStart int `json:"pivot_start,omitempty"`
	PivotEnd   int `json:"pivot_end,omitempty"`
	// IdentifierLabels are display labels for the leading identifier
	// columns (at most 2).
	IdentifierLabels []string `json:"identifier_labels,omitempty"`
	// PivotFieldLabel/ValueFieldLabel name the melted label/value
	// fields on unpivot output.
	PivotFieldLabel string `json:"pivot_field_label,omitempty"`
	ValueFieldLabel string `json:"value_field_label,omitempty"`
}
