package numtoken

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// TokenFamily is a set of chronological labels that orders a
// categorical axis as if it were time.
type TokenFamily string

const (
	FamilyNone    TokenFamily = ""
	FamilyMonth   TokenFamily = "month"
	FamilyQuarter TokenFamily = "quarter"
	FamilyWeekday TokenFamily = "weekday"
	FamilyISODate TokenFamily = "iso_date"
)

var (
	monthRe = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\b`)

	weekdayRe = regexp.MustCompile(`(?i)\b(mon(?:day)?|tue(?:s(?:day)?)?|wed(?:nesday)?|thu(?:r(?:s(?:day)?)?)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?)\b`)

	quarterRe = regexp.MustCompile(`(?i)\bq([1-4])\b`)

	yearRunRe = regexp.MustCompile(`(?i)\b(?:fy\s*)?(\d{2,4})\b`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

var weekdayNumbers = map[string]int{
	"mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6, "sun": 7,
}

// normalizeYear resolves 2-digit years with a pivot at 50:
// >=50 -> 19xx, <50 -> 20xx.
func normalizeYear(y int) int {
	if y >= 100 {
		return y
	}
	if y >= 50 {
		return 1900 + y
	}
	return 2000 + y
}

// yearNear extracts the first 2-4 digit year run from a label after the
// matched chronological token has been cut out.
func yearNear(label string, tokenStart, tokenEnd int) (int, bool) {
	rest := label[:tokenStart] + " " + label[tokenEnd:]
	m := yearRunRe.FindStringSubmatch(rest)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return normalizeYear(y), true
}

// MonthKey decodes a month token anywhere in a noisy label ("JAN/11",
// "revenue for March 2024") into a sortable key. Labels carrying a year
// sort across years; bare month names sort within one cycle.
func MonthKey(label string) (int, bool) {
	loc := monthRe.FindStringSubmatchIndex(label)
	if loc == nil {
		return 0, false
	}
	token := strings.ToLower(label[loc[2]:loc[3]])
	month, ok := monthNumbers[token[:3]]
	if !ok {
		return 0, false
	}
	year, _ := yearNear(label, loc[0], loc[1])
	return year*12 + month, true
}

// QuarterKey decodes "Q[1-4]" plus an optional 2-4 digit year before or
// after ("FY24 Q1", "Q2/23", "Q3 2022") into a sortable key.
func QuarterKey(label string) (int, bool) {
	loc := quarterRe.FindStringSubmatchIndex(label)
	if loc == nil {
		return 0, false
	}
	q, err := strconv.Atoi(label[loc[2]:loc[3]])
	if err != nil {
		return 0, false
	}
	year, _ := yearNear(label, loc[0], loc[1])
	return year*4 + q, true
}

// WeekdayKey decodes a weekday token anywhere in a label ("Wed-").
func WeekdayKey(label string) (int, bool) {
	m := weekdayRe.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	day, ok := weekdayNumbers[strings.ToLower(m[1])[:3]]
	if !ok {
		return 0, false
	}
	return day, true
}

// DateKey decodes a parseable date label into a sortable key.
func DateKey(label string) (int64, bool) {
	t, ok := ParseDate(label)
	if !ok {
		return 0, false
	}
	return t.Unix(), true
}

// familyKey decodes a label under one family.
func familyKey(family TokenFamily, label string) (int64, bool) {
	switch family {
	case FamilyMonth:
		k, ok := MonthKey(label)
		return int64(k), ok
	case FamilyQuarter:
		k, ok := QuarterKey(label)
		return int64(k), ok
	case FamilyWeekday:
		k, ok := WeekdayKey(label)
		return int64(k), ok
	case FamilyISODate:
		return DateKey(label)
	}
	return 0, false
}

// DetectFamily samples labels and picks the chronological family that
// explains at least matchRatio of them, trying month, quarter, weekday
// then ISO date in that priority order.
func DetectFamily(labels []string, matchRatio float64) TokenFamily {
	if len(labels) == 0 {
		return FamilyNone
	}
	for _, family := range []TokenFamily{FamilyMonth, FamilyQuarter, FamilyWeekday, FamilyISODate} {
		matched := 0
		for _, label := range labels {
			if _, ok := familyKey(family, label); ok {
				matched++
			}
		}
		if float64(matched)/float64(len(labels)) >= matchRatio {
			return family
		}
	}
	return FamilyNone
}

// SortChronologically orders labels ascending by their decoded key
// under the given family. Undecodable labels keep their relative order
// and sort after every decodable one.
func SortChronologically(labels []string, family TokenFamily) []string {
	type decoded struct {
		label string
		key   int64
		ok    bool
		pos   int
	}
	items := make([]decoded, len(labels))
	for i, label := range labels {
		key, ok := familyKey(family, label)
		items[i] = decoded{label: label, key: key, ok: ok, pos: i}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return a.pos < b.pos
		}
		if a.key != b.key {
			return a.key < b.key
		}
		return a.pos < b.pos
	})
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.label
	}
	return out
}
