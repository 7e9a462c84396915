package destination

import (
	"context"
	"log/slog"

	"github.com/pipesync/server/pkg/domain/sheetrow"
)

// RowHeadroom is added to the row count whenever the sheet has to grow, so
// that a few runs of growth fit without another resize.
const RowHeadroom = 500

// Write replaces the sheet's content with headers and rows.
// The grid is grown to fit but never shrunk.
func Write(ctx context.Context, sheet Sheet, headers sheetrow.Headers, rows []sheetrow.Row, logger *slog.Logger) error {
	columns := int64(len(headers))
	if sheet.ColumnCount() < columns {
		logger.Info("Growing sheet columns", "from", sheet.ColumnCount(), "to", columns)
		if err := sheet.Resize(ctx, sheet.RowCount(), columns); err != nil {
			return &Error{Op: "resize", Err: err}
		}
	}

	// header row plus data rows
	needed := int64(len(rows)) + 1
	if sheet.RowCount() < needed {
		target := int64(len(rows)) + RowHeadroom
		logger.Info("Growing sheet rows", "from", sheet.RowCount(), "to", target)
		if err := sheet.Resize(ctx, target, sheet.ColumnCount()); err != nil {
			return &Error{Op: "resize", Err: err}
		}
	}

	if err := sheet.Clear(ctx); err != nil {
		return &Error{Op: "clear", Err: err}
	}
	if err := sheet.SetHeaderRow(ctx, headers); err != nil {
		return &Error{Op: "set header", Err: err}
	}
	if len(rows) == 0 {
		return nil
	}
	if err := sheet.AddRows(ctx, headers, rows); err != nil {
		return &Error{Op: "add rows", Err: err}
	}

	logger.Debug("Sheet written", "headers", len(headers), "rows", len(rows))
	return nil
}
