// Package execution records function runs in the executions collection.
package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	shared "github.com/pipesync/server/pkg"
	"github.com/pipesync/server/pkg/types"
)

// ExecutionOptions describes how a run was triggered.
type ExecutionOptions struct {
	TriggerType  string
	Integrations int
}

// LogStart creates the execution record and returns its ID. The ID is
// returned even when the write fails so callers can keep logging with it.
func LogStart(ctx context.Context, db shared.Database, service string, opts ExecutionOptions) (string, error) {
	id := uuid.NewString()
	record := &types.ExecutionRecord{
		ExecutionID:  id,
		Service:      service,
		TriggerType:  opts.TriggerType,
		Status:       types.ExecutionStatusStarted,
		StartTime:    time.Now().UTC(),
		Integrations: opts.Integrations,
	}
	if err := db.SetExecution(ctx, record); err != nil {
		return id, fmt.Errorf("set execution %s: %w", id, err)
	}
	return id, nil
}

// LogSuccess closes the execution with the run report. A report with
// failed integrations is recorded as PARTIAL.
func LogSuccess(ctx context.Context, db shared.Database, id string, report *types.RunReport) error {
	status := types.ExecutionStatusSuccess
	updates := map[string]interface{}{}
	var outputs interface{}
	if report != nil {
		outputs = report
		if report.Failed > 0 {
			status = types.ExecutionStatusPartial
		}
		updates["integrations"] = len(report.Results)
		updates["failures"] = report.Failed
	}
	return finish(ctx, db, id, status, outputs, updates)
}

// LogFailure closes the execution with the fault that stopped it.
func LogFailure(ctx context.Context, db shared.Database, id string, cause error, outputs interface{}) error {
	updates := map[string]interface{}{}
	if cause != nil {
		updates["error_message"] = cause.Error()
	}
	return finish(ctx, db, id, types.ExecutionStatusFailed, outputs, updates)
}

func finish(ctx context.Context, db shared.Database, id string, status types.ExecutionStatus, outputs interface{}, updates map[string]interface{}) error {
	if id == "" {
		return nil
	}
	updates["status"] = string(status)
	updates["end_time"] = time.Now().UTC()
	if outputs != nil {
		data, err := json.Marshal(outputs)
		if err != nil {
			return fmt.Errorf("marshal outputs: %w", err)
		}
		updates["outputs_json"] = string(data)
	}
	if err := db.UpdateExecution(ctx, id, updates); err != nil {
		return fmt.Errorf("update execution %s: %w", id, err)
	}
	return nil
}
