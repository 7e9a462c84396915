// Package synchronizer copies the cards of a pipe into a spreadsheet sheet.
package synchronizer

import (
	"context"

	"github.com/pipesync/server/pkg/domain/sheetrow"
	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/types"
)

// QueryClient is the remote side of a synchronization. *pipefy.Client
// implements it.
type QueryClient interface {
	PageInfo(ctx context.Context, pipeID, after string) (*pipefy.PageInfo, error)
	Cards(ctx context.Context, q pipefy.CardsQuery) ([]pipefy.Card, error)
	Pipe(ctx context.Context, q pipefy.PipeQuery) (*pipefy.Pipe, error)
}

// Archiver keeps a copy of what was written to a sheet.
type Archiver interface {
	Archive(ctx context.Context, cfg types.IntegrationConfig, headers sheetrow.Headers, rows []sheetrow.Row) (string, error)
}

var _ QueryClient = (*pipefy.Client)(nil)
