package structure

import (
	"regexp"
	"strings"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
)

// ClassifierConfig defines the keyword-based summary-row pass.
type ClassifierConfig struct {
	// Keywords flag a row when any cell equals or starts with one.
	Keywords []string `json:"keywords" mapstructure:"keywords"`
}

// DefaultClassifierConfig returns the tuned default keyword list
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Keywords: []string{
			"total", "subtotal", "grand total", "sum", "summary",
			"notes", "note", "memo", "remarks", "remark",
			"balance", "balances",
		},
	}
}

var (
	metadataFirstCellRe = regexp.MustCompile(`(?i)^(?:report|title|summary|project title|table)\b`)
	timestampFirstCellRe = regexp.MustCompile(`(?i)^(?:generated on|created on|as of)\b`)
	pageFirstCellRe      = regexp.MustCompile(`(?i)^page\s+\d+`)
	totalCellRe          = regexp.MustCompile(`(?i)^\s*(?:grand\s+total|overall\s+total|sub\s*total|total)\s*:?\s*$`)
)

// IsStructuralSummaryRow flags rows that are clearly not data: fully
// empty rows, report/title banners, generated-on stamps, whole-word
// total rows whose other cells are empty or numeric, and page markers.
// Deliberately conservative: hierarchical parent rows such as account
// code "50" above "5010" must survive.
func IsStructuralSummaryRow(row []string) bool {
	nonEmpty := nonEmptyCount(row)
	if nonEmpty == 0 {
		return true
	}

	first := ""
	for _, cell := range row {
		if s := strings.TrimSpace(cell); s != "" {
			first = s
			break
		}
	}

	if pageFirstCellRe.MatchString(first) {
		return true
	}

	if metadataFirstCellRe.MatchString(first) || timestampFirstCellRe.MatchString(first) {
		if nonEmpty == 1 {
			return true
		}
	}

	for i, cell := range row {
		s := strings.TrimSpace(cell)
		if s == "" || !totalCellRe.MatchString(s) {
			continue
		}
		if restEmptyOrNumeric(row, i) {
			return true
		}
	}
	return false
}

// restEmptyOrNumeric reports whether every cell other than index skip
// is empty or parses numerically.
func restEmptyOrNumeric(row []string, skip int) bool {
	for i, cell := range row {
		if i == skip {
			continue
		}
		s := strings.TrimSpace(cell)
		if s == "" {
			continue
		}
		if !numtoken.LooksNumeric(s) {
			return false
		}
	}
	return true
}

// MatchesLeadingFingerprint reports whether a row looks like pre-header
// report metadata: a title/report banner, a generated-on stamp, or a
// page marker in its first non-empty cell.
func MatchesLeadingFingerprint(row []string) bool {
	for _, cell := range row {
		s := strings.TrimSpace(cell)
		if s == "" {
			continue
		}
		return metadataFirstCellRe.MatchString(s) ||
			timestampFirstCellRe.MatchString(s) ||
			pageFirstCellRe.MatchString(s)
	}
	return false
}

// IsKeywordSummaryRow is the second, keyword-only pass run after
// canonicalization. A row is flagged when any cell equals a configured
// keyword or starts with one followed by a space.
func IsKeywordSummaryRow(row []string, cfg ClassifierConfig) bool {
	keywords := cfg.Keywords
	if len(keywords) == 0 {
		keywords = DefaultClassifierConfig().Keywords
	}
	for _, cell := range row {
		s := strings.ToLower(strings.TrimSpace(cell))
		if s == "" {
			continue
		}
		for _, kw := range keywords {
			if s == kw || strings.HasPrefix(s, kw+" ") {
				return true
			}
		}
	}
	return false
}

// IsKeywordSummaryRecord applies the keyword pass to a record's values
// in column order.
func IsKeywordSummaryRecord(values []string, cfg ClassifierConfig) bool {
	return IsKeywordSummaryRow(values, cfg)
}
