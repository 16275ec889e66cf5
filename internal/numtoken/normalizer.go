// Package numtoken normalizes raw cell strings: numeric/currency/
// percentage parsing, numeric-list splitting, and month/quarter/weekday
// token extraction from noisy labels.
package numtoken

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var currencySymbols = []string{"$", "€", "£", "¥"}

// summaryKeywordRe matches whole-word summary markers inside a value.
var summaryKeywordRe = regexp.MustCompile(`(?i)\b(?:sub\s*total|grand\s+total|total|summary)\b`)

// numericListRe matches individual comma-grouped numbers inside a field
// holding several of them. A comma only continues a number when it
// introduces a 3-digit thousands group.
var numericListRe = regexp.MustCompile(`-?(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?`)

// ParseNumber parses a raw cell into a float64. Currency symbols,
// percent signs, grouping separators and whitespace are stripped;
// "(123.45)" reads as -123.45. The later of the last ',' and last '.'
// wins as the decimal point. Returns false for non-numeric input.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
		negative = true
		s = s[1 : len(s)-1]
	}

	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, "%", "")
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastComma > lastDot:
		// Comma sits after any dot. It is the decimal point unless the
		// commas form clean thousands groups ("1,500" stays 1500).
		if lastDot >= 0 || !commaGroupsAreThousands(s) {
			head := strings.ReplaceAll(s[:lastComma], ".", "")
			head = strings.ReplaceAll(head, ",", "")
			s = head + "." + s[lastComma+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	if negative {
		s = "-" + s
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// commaGroupsAreThousands reports whether every comma in s introduces
// an exact 3-digit group, i.e. the commas are grouping separators.
func commaGroupsAreThousands(s string) bool {
	sign := strings.TrimLeft(s, "+-")
	parts := strings.Split(sign, ",")
	if len(parts) < 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[0]) > 3 || !allDigits(parts[0]) {
		return false
	}
	for _, part := range parts[1:] {
		if len(part) != 3 || !allDigits(part) {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SplitNumericList splits a field holding several comma-grouped numbers.
// A comma is a separator only where it precedes a new number's start,
// not where it continues a thousands group:
// "1,500.00,2,000.00" -> ["1,500.00", "2,000.00"].
func SplitNumericList(raw string) []string {
	return numericListRe.FindAllString(raw, -1)
}

// LooksNumeric reports whether the cell parses as a number.
func LooksNumeric(raw string) bool {
	_, ok := ParseNumber(raw)
	return ok
}

// IsCurrencyString reports whether the cell is a currency-tagged number.
func IsCurrencyString(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	hasSymbol := false
	for _, sym := range currencySymbols {
		if strings.Contains(s, sym) {
			hasSymbol = true
			break
		}
	}
	return hasSymbol && LooksNumeric(s)
}

// IsPercentageString reports whether the cell is a percent-tagged number.
func IsPercentageString(raw string) bool {
	s := strings.TrimSpace(raw)
	return strings.HasSuffix(s, "%") && LooksNumeric(s)
}

// MaxIdentifierLength bounds how long an identifier-like value may be.
const MaxIdentifierLength = 80

// IsLikelyIdentifierValue reports whether the cell could be an
// identifier: non-empty, at most 80 characters, and free of
// total/subtotal/summary keywords.
func IsLikelyIdentifierValue(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return false
	}
	if len([]rune(s)) > MaxIdentifierLength {
		return false
	}
	return !summaryKeywordRe.MatchString(s)
}

// dateFormats are the layouts a date-shaped value may parse under.
// Mirrors the ingestion coercer's format list plus short label forms.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Jan-06",
	"Jan 2006",
}

// dateShapeRe is a cheap pre-filter: a date needs a digit and either a
// separator or a month token; bare numbers never qualify.
var dateShapeRe = regexp.MustCompile(`(?i)^[\w]{1,9}([-/ .,:]+[\w]{1,9}){1,4}$`)

// ParseDate parses a date-shaped cell. Returns false when the value is
// not date-shaped or no known layout accepts it.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || !dateShapeRe.MatchString(s) {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LooksLikeDate reports whether the cell is date-shaped and parseable.
func LooksLikeDate(raw string) bool {
	_, ok := ParseDate(raw)
	return ok
}
