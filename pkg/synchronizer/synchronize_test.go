package synchronizer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipesync/server/pkg/types"
)

func failingFor(pipeID string) *Runner {
	return &Runner{
		Logger: slog.Default(),
		Syncer: syncerFunc(func(ctx context.Context, cfg types.IntegrationConfig) (*types.IntegrationResult, error) {
			if cfg.PipeID == pipeID {
				return &types.IntegrationResult{PipeID: cfg.PipeID}, errors.New("sheet clear: quota exceeded")
			}
			return &types.IntegrationResult{PipeID: cfg.PipeID}, nil
		}),
	}
}

func TestSynchronize_Success(t *testing.T) {
	resp, report := Synchronize(context.Background(), failingFor("none"), &types.SyncRequest{
		Integrations: []types.IntegrationConfig{{PipeID: "1"}},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Successfully synchronized", resp.Body.Message)
	assert.Nil(t, resp.Body.Errors)
	require.NotNil(t, report)
	assert.Equal(t, 1, report.Succeeded)
}

func TestSynchronize_PartialFailure(t *testing.T) {
	resp, report := Synchronize(context.Background(), failingFor("A"), &types.SyncRequest{
		Integrations: []types.IntegrationConfig{{PipeID: "A"}, {PipeID: "B"}},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Synchronized with some errors", resp.Body.Message)
	assert.Equal(t, []string{"sheet clear: quota exceeded"}, resp.Body.Errors)
	assert.Equal(t, 1, report.Failed)
}

func TestSynchronize_EmptyListSucceeds(t *testing.T) {
	resp, _ := Synchronize(context.Background(), failingFor("none"), &types.SyncRequest{
		Integrations: []types.IntegrationConfig{},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Successfully synchronized", resp.Body.Message)
}

func TestSynchronize_MissingIntegrations(t *testing.T) {
	for _, req := range []*types.SyncRequest{nil, {}} {
		resp, report := Synchronize(context.Background(), failingFor("none"), req)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Error while synchronizing: integrations list is required", resp.Body.Message)
		assert.Nil(t, report)
	}
}

func TestSynchronize_RecoversFault(t *testing.T) {
	resp, report := Synchronize(context.Background(), nil, &types.SyncRequest{
		Integrations: []types.IntegrationConfig{{PipeID: "1"}},
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, resp.Body.Message, "Error while synchronizing: panic:")
	assert.Nil(t, report)
}
