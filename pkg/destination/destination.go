// Package destination defines the spreadsheet interface synchronized cards are written to.
package destination

import (
	"context"
	"fmt"

	"github.com/pipesync/server/pkg/domain/sheetrow"
)

// Opener resolves a sheet inside a spreadsheet.
type Opener interface {
	// Open loads the sheet's properties. sheetID is the sheet's gid.
	Open(ctx context.Context, spreadsheetID string, sheetID int64) (Sheet, error)
}

// Sheet is a single tab of a spreadsheet.
type Sheet interface {
	RowCount() int64
	ColumnCount() int64

	// Resize sets the grid size. Callers only ever grow it.
	Resize(ctx context.Context, rows, columns int64) error

	// Clear wipes every cell value.
	Clear(ctx context.Context) error

	// SetHeaderRow writes headers as row one.
	SetHeaderRow(ctx context.Context, headers sheetrow.Headers) error

	// AddRows appends rows after the last written row. Each row is laid out in
	// header order; keys without a header are ignored.
	AddRows(ctx context.Context, headers sheetrow.Headers, rows []sheetrow.Row) error
}

// Error reports which sheet operation failed.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("sheet %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
