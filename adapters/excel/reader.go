// Package excel reads workbook files into raw tables via excelize.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/internal/logging"
)

// Reader loads one worksheet of an xlsx workbook.
type Reader struct {
	// Sheet names the worksheet to read; empty reads the first sheet.
	Sheet  string
	logger *logging.Logger
}

// NewReader creates a workbook reader.
func NewReader(logger *logging.Logger) *Reader {
	if logger == nil {
		logger = logging.DefaultLogger
	}
	return &Reader{logger: logger}
}

// Read loads the sheet's formatted cell values as a raw table. Merged
// cells, stacked headers and footer rows survive untouched; structure
// recovery happens downstream.
func (r *Reader) Read(ctx context.Context, path string) (table.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return table.RawTable{}, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return table.RawTable{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return table.RawTable{}, fmt.Errorf("%s: workbook has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return table.RawTable{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("excel: read %d rows from %s!%s", len(rows), path, sheet)
	return table.NewRawTable(rows), nil
}
