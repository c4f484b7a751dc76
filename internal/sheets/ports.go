package sheets

import "context"

// RenderMode selects how the backend renders cell values on read.
type RenderMode string

const (
	// RenderRaw returns native numeric types where the backend can determine
	// a value is numeric, and text otherwise.
	RenderRaw RenderMode = "raw"
	// RenderFormatted returns values as the backend would display them,
	// including any locale formatting.
	RenderFormatted RenderMode = "formatted"
)

// RowStore is the narrow interface the transaction store consumes. Any
// row-oriented tabular backend is compatible: rows are addressed by 1-based
// position, columns by 1-based index, and there is no native key or
// auto-increment support.
type RowStore interface {
	// AppendRow adds one row after the last non-empty row.
	AppendRow(ctx context.Context, cells []any) error

	// ReadAllRows returns every row, header included. An empty backend
	// returns a zero-length slice, not an error.
	ReadAllRows(ctx context.Context, mode RenderMode) ([][]any, error)

	// FindRowByValue scans for a cell whose text equals value and returns the
	// 1-based position of its row; found is false when no cell matches.
	FindRowByValue(ctx context.Context, value string) (row int, found bool, err error)

	// UpdateCell overwrites a single cell.
	UpdateCell(ctx context.Context, row, col int, value any) error

	// DeleteRow removes a row entirely; subsequent rows shift up by one.
	DeleteRow(ctx context.Context, row int) error

	// ReadCell returns a single cell's value, or nil when the cell is empty
	// or beyond the data range.
	ReadCell(ctx context.Context, row, col int) (any, error)
}
