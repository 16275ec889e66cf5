// Package structure recovers tabular structure from raw rows of
// unknown shape: header location, canonical column names, leading
// metadata rows and summary-row classification.
package structure

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/numtoken"
)

// DetectorConfig defines the structure detection thresholds
type DetectorConfig struct {
	ScanRowLimit   int     `json:"scan_row_limit" mapstructure:"scan_row_limit"`     // rows inspected for a header
	MinTextRatio   float64 `json:"min_text_ratio" mapstructure:"min_text_ratio"`     // non-numeric share a header row needs
	MaxLeadingRows int     `json:"max_leading_rows" mapstructure:"max_leading_rows"` // leading rows retained in metadata
}

// DefaultDetectorConfig returns the tuned defaults
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ScanRowLimit:   15,
		MinTextRatio:   0.6,
		MaxLeadingRows: 10,
	}
}

// Detection is the outcome of a structure scan.
type Detection struct {
	// HeaderIndex is the detected header row index into the raw rows.
	HeaderIndex int
	// HeaderFound is false when no candidate passed and the first
	// non-empty row was used as a fallback.
	HeaderFound bool
	// RawHeader holds the header row's cells as found.
	RawHeader []string
	// CanonicalHeader holds deduplicated canonical names.
	CanonicalHeader []string
	// ExpectedColumns is the modal non-empty cell count.
	ExpectedColumns int
	// LeadingRows are the rows strictly before the header (capped).
	LeadingRows [][]string
	// Title is the space-joined first non-empty leading row.
	Title string
}

var loneTotalRe = regexp.MustCompile(`(?i)^\s*(?:grand\s+total|overall\s+total|sub\s*total|total)s?\s*:?\s*$`)

// DetectStructure scans the first rows for the most plausible header
// row. Structural ambiguity is never fatal: with no candidate the first
// non-empty row is used.
func DetectStructure(rows [][]string, cfg DetectorConfig) Detection {
	limit := cfg.ScanRowLimit
	if limit <= 0 {
		limit = DefaultDetectorConfig().ScanRowLimit
	}
	if limit > len(rows) {
		limit = len(rows)
	}

	expected := modalColumnCount(rows[:limit])

	headerIndex := -1
	for i := 0; i < limit; i++ {
		if isHeaderCandidate(rows[i], expected, cfg.MinTextRatio) {
			headerIndex = i
			break
		}
	}

	found := headerIndex >= 0
	if !found {
		headerIndex = firstNonEmptyRow(rows)
		if headerIndex < 0 {
			headerIndex = 0
		}
	}

	var raw []string
	if headerIndex < len(rows) {
		raw = append([]string(nil), rows[headerIndex]...)
	}

	leading := rows[:min(headerIndex, len(rows))]
	maxLeading := cfg.MaxLeadingRows
	if maxLeading <= 0 {
		maxLeading = DefaultDetectorConfig().MaxLeadingRows
	}
	if len(leading) > maxLeading {
		leading = leading[:maxLeading]
	}
	kept := make([][]string, len(leading))
	for i, row := range leading {
		kept[i] = append([]string(nil), row...)
	}

	return Detection{
		HeaderIndex:     headerIndex,
		HeaderFound:     found,
		RawHeader:       raw,
		CanonicalHeader: CanonicalNames(raw),
		ExpectedColumns: expected,
		LeadingRows:     kept,
		Title:           titleFromLeading(kept),
	}
}

// modalColumnCount returns the most frequent non-empty cell count among
// the scanned rows; ties resolve to the larger count.
func modalColumnCount(rows [][]string) int {
	counts := make(map[int]int)
	for _, row := range rows {
		c := nonEmptyCount(row)
		if c > 0 {
			counts[c]++
		}
	}
	mode, best := 0, 0
	for c, freq := range counts {
		if freq > best || (freq == best && c > mode) {
			mode, best = c, freq
		}
	}
	return mode
}

// isHeaderCandidate applies the header-row rules: the non-empty count
// matches (or exceeds) the expected column count, at least one cell is
// non-numeric, the non-numeric share clears the text-ratio floor, the
// non-numeric values are (almost) all distinct, and the row is not a
// lone Total cell.
func isHeaderCandidate(row []string, expected int, minTextRatio float64) bool {
	nonEmpty := nonEmptyCount(row)
	if nonEmpty == 0 || expected == 0 || nonEmpty < expected {
		return false
	}

	if minTextRatio <= 0 {
		minTextRatio = DefaultDetectorConfig().MinTextRatio
	}

	var nonNumeric []string
	for _, cell := range row {
		s := strings.TrimSpace(cell)
		if s == "" {
			continue
		}
		if !numtoken.LooksNumeric(s) {
			nonNumeric = append(nonNumeric, s)
		}
	}
	if len(nonNumeric) == 0 {
		return false
	}
	if float64(len(nonNumeric))/float64(nonEmpty) < minTextRatio {
		return false
	}

	distinct := make(map[string]struct{}, len(nonNumeric))
	for _, s := range nonNumeric {
		distinct[strings.ToLower(s)] = struct{}{}
	}
	required := len(nonNumeric)
	if nonEmpty-1 < required {
		required = nonEmpty - 1
	}
	if len(distinct) < required {
		return false
	}

	if nonEmpty == 1 && loneTotalRe.MatchString(nonNumeric[0]) {
		return false
	}
	return true
}

// CanonicalNames trims and collapses header cells into canonical names.
// Empty cells become "Column <n>"; case-insensitive duplicates get
// " (2)", " (3)"... suffixes in first-seen order.
func CanonicalNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, cell := range header {
		name := collapseWhitespace(cell)
		if name == "" {
			name = fmt.Sprintf("Column %d", i+1)
		}
		key := strings.ToLower(name)
		seen[key]++
		if n := seen[key]; n > 1 {
			name = fmt.Sprintf("%s (%d)", name, n)
			// The suffixed name could itself collide with a real header.
			seen[strings.ToLower(name)]++
		}
		names[i] = name
	}
	return names
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func nonEmptyCount(row []string) int {
	n := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			n++
		}
	}
	return n
}

func firstNonEmptyRow(rows [][]string) int {
	for i, row := range rows {
		if nonEmptyCount(row) > 0 {
			return i
		}
	}
	return -1
}

func titleFromLeading(leading [][]string) string {
	for _, row := range leading {
		var parts []string
		for _, cell := range row {
			if s := strings.TrimSpace(cell); s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return ""
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
