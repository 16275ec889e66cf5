// Package csvfile reads delimited text files into raw tables, sniffing
// the delimiter from the leading lines.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/logging"
)

// Candidate delimiters, in preference order for ties.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// How many leading lines the sniffer samples.
const sniffLines = 10

// Reader loads CSV-like files. The zero value is usable; a forced
// delimiter skips sniffing.
type Reader struct {
	// Delimiter forces a field separator; 0 sniffs.
	Delimiter rune
	logger    *logging.Logger
}

// NewReader creates a sniffing reader.
func NewReader(logger *logging.Logger) *Reader {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Reader{logger: logger}
}

// Read parses the file into a raw table. Rows keep ragged widths;
// structure recovery happens downstream.
func (r *Reader) Read(ctx context.Context, path string) (table.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return table.RawTable{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return table.RawTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	delim := r.Delimiter
	if delim == 0 {
		sample, _ := br.Peek(64 * 1024)
		delim = SniffDelimiter(sample)
		if r.logger != nil {
			r.logger.Debug("csvfile: sniffed delimiter %q for %s", string(delim), path)
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return table.RawTable{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return table.NewRawTable(rows), nil
}

// SniffDelimiter picks the candidate delimiter with the highest stable
// per-line count over the sample's leading lines, defaulting to comma.
func SniffDelimiter(sample []byte) rune {
	lines := strings.Split(string(sample), "\n")
	if len(lines) > sniffLines {
		lines = lines[:sniffLines]
	}

	best := ','
	bestScore := 0
	for _, delim := range candidateDelimiters {
		score := delimiterScore(lines, delim)
		if score > bestScore {
			best = delim
			bestScore = score
		}
	}
	return best
}

// delimiterScore counts delimiter occurrences over non-empty lines.
// Report exports put titles on narrow leading lines, so a delimiter
// only needs to appear on most lines, not all of them.
func delimiterScore(lines []string, delim rune) int {
	total := 0
	counted := 0
	appears := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := strings.Count(line, string(delim))
		total += n
		counted++
		if n > 0 {
			appears++
		}
	}
	if counted == 0 || appears*2 < counted {
		return 0
	}
	return total
}
