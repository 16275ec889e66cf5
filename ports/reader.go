package ports

import (
	"context"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/table"
)

// TableReader loads a raw, uninterpreted table from a file or stream.
// Implementations do no cleaning beyond cell-level whitespace trimming;
// structure recovery happens downstream.
type TableReader interface {
	Read(ctx context.Context, path string) (table.RawTable, error)
}
