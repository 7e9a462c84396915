// Package googlesheets implements destination.Sheet on the Google Sheets v4 API.
package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pipesync/server/pkg/destination"
	"github.com/pipesync/server/pkg/domain/sheetrow"
)

// AppendChunkSize bounds the rows sent in a single append call.
const AppendChunkSize = 2000

var ErrSheetNotFound = errors.New("sheet not found")

// Client opens sheets of any spreadsheet the credentials can reach.
type Client struct {
	svc    *sheets.Service
	logger *slog.Logger
}

// NewClient builds a Sheets client. Authentication comes from opts, usually
// option.WithHTTPClient with a service account client.
func NewClient(ctx context.Context, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Client{svc: svc, logger: logger}, nil
}

// Open loads the properties of the sheet whose gid is sheetID.
func (c *Client) Open(ctx context.Context, spreadsheetID string, sheetID int64) (destination.Sheet, error) {
	doc, err := c.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &destination.Error{Op: "open", Err: err}
	}

	for _, s := range doc.Sheets {
		if s.Properties == nil || s.Properties.SheetId != sheetID {
			continue
		}
		sheet := &Sheet{
			svc:           c.svc,
			spreadsheetID: spreadsheetID,
			sheetID:       sheetID,
			title:         s.Properties.Title,
			logger:        c.logger.With("component", "googlesheets", "spreadsheet_id", spreadsheetID, "sheet_id", sheetID),
		}
		if grid := s.Properties.GridProperties; grid != nil {
			sheet.rows = grid.RowCount
			sheet.columns = grid.ColumnCount
		}
		return sheet, nil
	}

	return nil, &destination.Error{
		Op:  "open",
		Err: fmt.Errorf("%w: gid %d in spreadsheet %s", ErrSheetNotFound, sheetID, spreadsheetID),
	}
}

// Sheet is one tab of a Google spreadsheet.
type Sheet struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetID       int64
	title         string
	rows          int64
	columns       int64
	logger        *slog.Logger
}

func (s *Sheet) RowCount() int64    { return s.rows }
func (s *Sheet) ColumnCount() int64 { return s.columns }

// Title is the tab name used in A1 ranges.
func (s *Sheet) Title() string { return s.title }

func (s *Sheet) Resize(ctx context.Context, rows, columns int64) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: s.sheetID,
					GridProperties: &sheets.GridProperties{
						RowCount:    rows,
						ColumnCount: columns,
					},
					// gid 0 is the first tab and would otherwise be omitted
					ForceSendFields: []string{"SheetId"},
				},
				Fields: "gridProperties.rowCount,gridProperties.columnCount",
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return err
	}
	s.rows, s.columns = rows, columns
	return nil
}

func (s *Sheet) Clear(ctx context.Context) error {
	_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, quoteTitle(s.title), &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}

func (s *Sheet) SetHeaderRow(ctx context.Context, headers sheetrow.Headers) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{row}}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, quoteTitle(s.title)+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (s *Sheet) AddRows(ctx context.Context, headers sheetrow.Headers, rows []sheetrow.Row) error {
	for start := 0; start < len(rows); start += AppendChunkSize {
		end := min(start+AppendChunkSize, len(rows))

		vr := &sheets.ValueRange{Values: Project(headers, rows[start:end])}
		_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, quoteTitle(s.title)+"!A1", vr).
			ValueInputOption("USER_ENTERED").
			InsertDataOption("OVERWRITE").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("rows %d-%d: %w", start+1, end, err)
		}
		s.logger.Debug("Appended rows", "from", start+1, "to", end)
	}
	return nil
}

// Project lays rows out in header order. Missing keys become empty cells.
func Project(headers sheetrow.Headers, rows []sheetrow.Row) [][]interface{} {
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		cells := make([]interface{}, len(headers))
		for j, h := range headers {
			cells[j] = row[h]
		}
		values[i] = cells
	}
	return values
}

// quoteTitle makes a tab name safe for A1 notation.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
