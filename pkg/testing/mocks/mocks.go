package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/pipesync/server/pkg/destination"
	"github.com/pipesync/server/pkg/domain/sheetrow"
	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/types"
)

// --- Mock Database ---
type MockDatabase struct {
	SetExecutionFunc     func(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecutionFunc  func(ctx context.Context, id string, data map[string]interface{}) error
	ListIntegrationsFunc func(ctx context.Context, enabledOnly bool) ([]*types.IntegrationRecord, error)
}

func (m *MockDatabase) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	if m.SetExecutionFunc != nil {
		return m.SetExecutionFunc(ctx, record)
	}
	return nil
}
func (m *MockDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateExecutionFunc != nil {
		return m.UpdateExecutionFunc(ctx, id, data)
	}
	return nil
}
func (m *MockDatabase) ListIntegrations(ctx context.Context, enabledOnly bool) ([]*types.IntegrationRecord, error) {
	if m.ListIntegrationsFunc != nil {
		return m.ListIntegrationsFunc(ctx, enabledOnly)
	}
	return nil, nil
}

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "msg-id", nil
}

// --- Mock Storage ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}
func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return []byte("mock-data"), nil
}

// --- Mock Pipefy Client ---
type MockQueryClient struct {
	PageInfoFunc func(ctx context.Context, pipeID, after string) (*pipefy.PageInfo, error)
	CardsFunc    func(ctx context.Context, q pipefy.CardsQuery) ([]pipefy.Card, error)
	PipeFunc     func(ctx context.Context, q pipefy.PipeQuery) (*pipefy.Pipe, error)
}

func (m *MockQueryClient) PageInfo(ctx context.Context, pipeID, after string) (*pipefy.PageInfo, error) {
	if m.PageInfoFunc != nil {
		return m.PageInfoFunc(ctx, pipeID, after)
	}
	return &pipefy.PageInfo{}, nil
}
func (m *MockQueryClient) Cards(ctx context.Context, q pipefy.CardsQuery) ([]pipefy.Card, error) {
	if m.CardsFunc != nil {
		return m.CardsFunc(ctx, q)
	}
	return nil, nil
}
func (m *MockQueryClient) Pipe(ctx context.Context, q pipefy.PipeQuery) (*pipefy.Pipe, error) {
	if m.PipeFunc != nil {
		return m.PipeFunc(ctx, q)
	}
	return &pipefy.Pipe{}, nil
}

// --- Mock Destination Sheet ---

// MockSheet keeps the grid size and the last written content in memory and
// records each call as a short step name.
type MockSheet struct {
	Rows    int64
	Columns int64

	ResizeFunc       func(ctx context.Context, rows, columns int64) error
	ClearFunc        func(ctx context.Context) error
	SetHeaderRowFunc func(ctx context.Context, headers sheetrow.Headers) error
	AddRowsFunc      func(ctx context.Context, headers sheetrow.Headers, rows []sheetrow.Row) error

	mu      sync.Mutex
	Calls   []string
	Headers sheetrow.Headers
	Written []sheetrow.Row
}

func (m *MockSheet) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *MockSheet) RowCount() int64    { return m.Rows }
func (m *MockSheet) ColumnCount() int64 { return m.Columns }

func (m *MockSheet) Resize(ctx context.Context, rows, columns int64) error {
	m.record(fmt.Sprintf("resize %dx%d", rows, columns))
	if m.ResizeFunc != nil {
		if err := m.ResizeFunc(ctx, rows, columns); err != nil {
			return err
		}
	}
	m.Rows, m.Columns = rows, columns
	return nil
}
func (m *MockSheet) Clear(ctx context.Context) error {
	m.record("clear")
	if m.ClearFunc != nil {
		if err := m.ClearFunc(ctx); err != nil {
			return err
		}
	}
	m.Headers, m.Written = nil, nil
	return nil
}
func (m *MockSheet) SetHeaderRow(ctx context.Context, headers sheetrow.Headers) error {
	m.record("header")
	if m.SetHeaderRowFunc != nil {
		if err := m.SetHeaderRowFunc(ctx, headers); err != nil {
			return err
		}
	}
	m.Headers = headers
	return nil
}
func (m *MockSheet) AddRows(ctx context.Context, headers sheetrow.Headers, rows []sheetrow.Row) error {
	m.record("rows")
	if m.AddRowsFunc != nil {
		if err := m.AddRowsFunc(ctx, headers, rows); err != nil {
			return err
		}
	}
	m.Written = append(m.Written, rows...)
	return nil
}

type MockOpener struct {
	OpenFunc func(ctx context.Context, spreadsheetID string, sheetID int64) (destination.Sheet, error)
}

func (m *MockOpener) Open(ctx context.Context, spreadsheetID string, sheetID int64) (destination.Sheet, error) {
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, spreadsheetID, sheetID)
	}
	return &MockSheet{Rows: 1000, Columns: 26}, nil
}
