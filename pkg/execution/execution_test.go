package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipesync/server/pkg/testing/mocks"
	"github.com/pipesync/server/pkg/types"
)

func TestLogStart(t *testing.T) {
	var saved *types.ExecutionRecord
	db := &mocks.MockDatabase{
		SetExecutionFunc: func(ctx context.Context, record *types.ExecutionRecord) error {
			saved = record
			return nil
		},
	}

	id, err := LogStart(context.Background(), db, "synchronizer", ExecutionOptions{TriggerType: "http", Integrations: 2})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)
	require.NotNil(t, saved)
	assert.Equal(t, id, saved.ExecutionID)
	assert.Equal(t, types.ExecutionStatusStarted, saved.Status)
	assert.Equal(t, 2, saved.Integrations)
	assert.False(t, saved.StartTime.IsZero())
}

func TestLogStart_WriteFailureStillReturnsID(t *testing.T) {
	db := &mocks.MockDatabase{
		SetExecutionFunc: func(ctx context.Context, record *types.ExecutionRecord) error {
			return errors.New("unavailable")
		},
	}

	id, err := LogStart(context.Background(), db, "synchronizer", ExecutionOptions{})
	assert.Error(t, err)
	assert.NotEmpty(t, id)
}

func TestLogSuccess_PartialReport(t *testing.T) {
	var updates map[string]interface{}
	db := &mocks.MockDatabase{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			assert.Equal(t, "exec-1", id)
			updates = data
			return nil
		},
	}

	report := &types.RunReport{
		Results:   []types.IntegrationResult{{PipeID: "A", Error: "boom"}, {PipeID: "B"}},
		Succeeded: 1,
		Failed:    1,
	}
	require.NoError(t, LogSuccess(context.Background(), db, "exec-1", report))

	assert.Equal(t, "PARTIAL", updates["status"])
	assert.Equal(t, 2, updates["integrations"])
	assert.Equal(t, 1, updates["failures"])
	assert.Contains(t, updates["outputs_json"], `"failed":1`)
	assert.Contains(t, updates, "end_time")
}

func TestLogSuccess_AllSucceeded(t *testing.T) {
	var updates map[string]interface{}
	db := &mocks.MockDatabase{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			updates = data
			return nil
		},
	}

	require.NoError(t, LogSuccess(context.Background(), db, "exec-1", &types.RunReport{Succeeded: 1}))
	assert.Equal(t, "SUCCESS", updates["status"])
}

func TestLogFailure(t *testing.T) {
	var updates map[string]interface{}
	db := &mocks.MockDatabase{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			updates = data
			return nil
		},
	}

	require.NoError(t, LogFailure(context.Background(), db, "exec-1", errors.New("malformed payload"), nil))
	assert.Equal(t, "FAILED", updates["status"])
	assert.Equal(t, "malformed payload", updates["error_message"])
	assert.NotContains(t, updates, "outputs_json")
}

func TestFinish_NoIDIsNoop(t *testing.T) {
	db := &mocks.MockDatabase{
		UpdateExecutionFunc: func(ctx context.Context, id string, data map[string]interface{}) error {
			t.Fatal("unexpected update")
			return nil
		},
	}
	assert.NoError(t, LogFailure(context.Background(), db, "", errors.New("x"), nil))
}
