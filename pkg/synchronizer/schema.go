package synchronizer

import (
	"context"

	"github.com/pipesync/server/pkg/domain/sheetrow"
	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/types"
)

// ResolveSchema loads the parts of the pipe schema the columns need.
func ResolveSchema(ctx context.Context, client QueryClient, pipeID string, columns types.Columns) (*sheetrow.Schema, error) {
	pipe, err := client.Pipe(ctx, pipefy.PipeQuery{
		PipeID:            pipeID,
		StartFormFields:   columns.StartFormFields,
		PhasesData:        columns.PhasesData(),
		PhasesFormsFields: columns.PhasesFormsFields,
	})
	if err != nil {
		return nil, err
	}
	return sheetrow.ResolveFields(pipe), nil
}
