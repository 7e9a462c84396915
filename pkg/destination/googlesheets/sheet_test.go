package googlesheets

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pipesync/server/pkg/destination"
	"github.com/pipesync/server/pkg/domain/sheetrow"
)

type recordedCall struct {
	Method string
	Path   string
	Query  string
	Body   map[string]interface{}
}

// fakeSheetsAPI serves a spreadsheet "ss1" with two tabs and records every call.
type fakeSheetsAPI struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	call := recordedCall{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &call.Body)
	}
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/v4/spreadsheets/ss1":
		json.NewEncoder(w).Encode(&sheets.Spreadsheet{
			Sheets: []*sheets.Sheet{
				{Properties: &sheets.SheetProperties{SheetId: 0, Title: "Resumo", GridProperties: &sheets.GridProperties{RowCount: 1000, ColumnCount: 26}}},
				{Properties: &sheets.SheetProperties{SheetId: 42, Title: "Card's", GridProperties: &sheets.GridProperties{RowCount: 10, ColumnCount: 5}}},
			},
		})
	case r.URL.Path == "/v4/spreadsheets/missing":
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"Requested entity was not found."}}`))
	default:
		w.Write([]byte(`{}`))
	}
}

func (f *fakeSheetsAPI) recorded() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func newTestClient(t *testing.T) (*Client, *fakeSheetsAPI) {
	t.Helper()
	api := &fakeSheetsAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), slog.Default(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client, api
}

func TestOpen_FindsSheetByGid(t *testing.T) {
	client, api := newTestClient(t)

	sheet, err := client.Open(context.Background(), "ss1", 42)
	require.NoError(t, err)

	assert.Equal(t, int64(10), sheet.RowCount())
	assert.Equal(t, int64(5), sheet.ColumnCount())
	assert.Equal(t, "Card's", sheet.(*Sheet).Title())

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "fields=sheets.properties")
}

func TestOpen_UnknownGid(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Open(context.Background(), "ss1", 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSheetNotFound)

	var destErr *destination.Error
	require.True(t, errors.As(err, &destErr))
	assert.Equal(t, "open", destErr.Op)
}

func TestOpen_RemoteError(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.Open(context.Background(), "missing", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Requested entity was not found")
}

func TestResize_SendsGidZero(t *testing.T) {
	client, api := newTestClient(t)

	sheet, err := client.Open(context.Background(), "ss1", 0)
	require.NoError(t, err)
	require.NoError(t, sheet.Resize(context.Background(), 1500, 30))

	assert.Equal(t, int64(1500), sheet.RowCount())
	assert.Equal(t, int64(30), sheet.ColumnCount())

	calls := api.recorded()
	last := calls[len(calls)-1]
	assert.Equal(t, "/v4/spreadsheets/ss1:batchUpdate", last.Path)

	requests := last.Body["requests"].([]interface{})
	update := requests[0].(map[string]interface{})["updateSheetProperties"].(map[string]interface{})
	props := update["properties"].(map[string]interface{})
	assert.Equal(t, float64(0), props["sheetId"])
	assert.Equal(t, "gridProperties.rowCount,gridProperties.columnCount", update["fields"])
}

func TestWriteSequence(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	sheet, err := client.Open(ctx, "ss1", 42)
	require.NoError(t, err)

	headers := sheetrow.Headers{"Id", "Título"}
	require.NoError(t, destination.Write(ctx, sheet, headers, []sheetrow.Row{
		{"Id": "1", "Título": "A"},
		{"Id": "2"},
	}, slog.Default()))

	// grid already fits: clear, header, append
	calls := api.recorded()[1:]
	require.Len(t, calls, 3)

	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.True(t, strings.HasSuffix(calls[0].Path, "/values/'Card''s':clear"), calls[0].Path)

	assert.Equal(t, http.MethodPut, calls[1].Method)
	assert.True(t, strings.HasSuffix(calls[1].Path, "/values/'Card''s'!A1"), calls[1].Path)
	assert.Contains(t, calls[1].Query, "valueInputOption=RAW")
	assert.Equal(t, []interface{}{[]interface{}{"Id", "Título"}}, calls[1].Body["values"])

	assert.True(t, strings.HasSuffix(calls[2].Path, "/values/'Card''s'!A1:append"), calls[2].Path)
	assert.Contains(t, calls[2].Query, "valueInputOption=USER_ENTERED")
	assert.Contains(t, calls[2].Query, "insertDataOption=OVERWRITE")
	assert.Equal(t, []interface{}{
		[]interface{}{"1", "A"},
		[]interface{}{"2", ""},
	}, calls[2].Body["values"])
}

func TestAddRows_Chunks(t *testing.T) {
	client, api := newTestClient(t)
	ctx := context.Background()

	sheet, err := client.Open(ctx, "ss1", 0)
	require.NoError(t, err)

	rows := make([]sheetrow.Row, AppendChunkSize*2+1)
	for i := range rows {
		rows[i] = sheetrow.Row{"Id": "x"}
	}
	require.NoError(t, sheet.AddRows(ctx, sheetrow.Headers{"Id"}, rows))

	appends := 0
	for _, c := range api.recorded() {
		if strings.HasSuffix(c.Path, ":append") {
			appends++
		}
	}
	assert.Equal(t, 3, appends)
}

func TestProject(t *testing.T) {
	values := Project(sheetrow.Headers{"b", "a", "c"}, []sheetrow.Row{{"a": "1", "b": "2", "orphan": "x"}})
	assert.Equal(t, [][]interface{}{{"2", "1", ""}}, values)
}

func TestQuoteTitle(t *testing.T) {
	assert.Equal(t, "'Página 1'", quoteTitle("Página 1"))
	assert.Equal(t, "'Card''s'", quoteTitle("Card's"))
}
