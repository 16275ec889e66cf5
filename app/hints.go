package app

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/plan"
)

// The stage plan is free prose from an external planner. These patterns
// pull out the few directives the pipeline honors; everything else in
// the plan is ignored, never executed.
var (
	leadingRangeRe = regexp.MustCompile(`(?i)\brows?\s+1\s*(?:-|to|through)\s*(\d+)`)
	leadingSkipRe  = regexp.MustCompile(`(?i)\b(?:skip|strip|remove|drop|discard)\s+(?:the\s+)?(?:first|top)\s+(\d+)\s+rows?`)
	leadingCountRe = regexp.MustCompile(`(?i)\b(\d+)\s+(?:leading|metadata|title|preamble)\s+rows?`)

	headerCountRe     = regexp.MustCompile(`(?i)\b(\d+|one|two|three|four|five)\s+header\s+rows?`)
	headerCountAltRe  = regexp.MustCompile(`(?i)\bheader\s+rows?\s*[:=]?\s*(\d+)`)
	unpivotRe         = regexp.MustCompile(`(?i)\b(?:unpivot|melt|de-?pivot|wide[- ]to[- ]long|cross-?tab(?:ulated)?)\b`)
	excludeTotalsRe   = regexp.MustCompile(`(?i)\b(?:exclude|drop|remove|filter\s+out|skip)\b[^.\n]*\b(?:sub)?totals?\b`)
	pivotRangeRe      = regexp.MustCompile(`(?i)\bcolumns?\s+(\d+)\s*(?:-|to|through)\s*(\d+)`)
	identifierLabelRe = regexp.MustCompile(`(?i)identifiers?[^"'\n]*["']([^"']+)["'](?:[^"'\n]*["']([^"']+)["'])?`)
	pivotFieldRe      = regexp.MustCompile(`(?i)pivot\s+(?:field|column|label)[^"'\n]*["']([^"']+)["']`)
	valueFieldRe      = regexp.MustCompile(`(?i)value\s+(?:field|column)[^"'\n]*["']([^"']+)["']`)
)

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
}

// ExtractHints scans the stage plan's prose once and returns the typed
// hints the pipeline stages consume. Downstream code never re-parses
// the plan text.
func ExtractHints(sp plan.StagePlan) plan.Hints {
	titleText := sp.TitleExtraction.Text()
	headerText := sp.HeaderResolution.Text()
	dataText := sp.DataNormalization.Text()
	full := sp.Text()

	hints := plan.Hints{}

	if n, ok := firstInt(leadingSkipRe, titleText); ok {
		hints.LeadingRowCount = n
	} else if n, ok := firstInt(leadingCountRe, titleText); ok {
		hints.LeadingRowCount = n
	} else if n, ok := firstInt(leadingRangeRe, titleText); ok {
		hints.LeadingRowCount = n
	}

	if n, ok := firstCount(headerCountRe, headerText); ok {
		hints.HeaderRowCount = n
	} else if n, ok := firstInt(headerCountAltRe, headerText); ok {
		hints.HeaderRowCount = n
	}

	hints.Unpivot = unpivotRe.MatchString(full)
	hints.ExcludeTotals = excludeTotalsRe.MatchString(full)

	if m := pivotRangeRe.FindStringSubmatch(dataText); m != nil {
		start, _ := strconv.Atoi(m[1])
		end, _ := strconv.Atoi(m[2])
		if start > 0 && end >= start {
			hints.PivotStart, hints.PivotEnd = start, end
		}
	}

	if m := identifierLabelRe.FindStringSubmatch(full); m != nil {
		hints.IdentifierLabels = append(hints.IdentifierLabels, m[1])
		if m[2] != "" {
			hints.IdentifierLabels = append(hints.IdentifierLabels, m[2])
		}
	}

	if m := pivotFieldRe.FindStringSubmatch(full); m != nil {
		hints.PivotFieldLabel = m[1]
	}
	if m := valueFieldRe.FindStringSubmatch(full); m != nil {
		hints.ValueFieldLabel = m[1]
	}

	return hints
}

func firstInt(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func firstCount(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	token := strings.ToLower(m[1])
	if n, ok := wordNumbers[token]; ok {
		return n, true
	}
	n, err := strconv.Atoi(token)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
