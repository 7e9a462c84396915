package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shared "github.com/pipesync/server/pkg"
	"github.com/pipesync/server/pkg/bootstrap"
	"github.com/pipesync/server/pkg/domain/sheetrow"
	"github.com/pipesync/server/pkg/synchronizer"
	"github.com/pipesync/server/pkg/types"
)

type syncerFunc func(ctx context.Context, cfg types.IntegrationConfig) (*types.IntegrationResult, error)

func (f syncerFunc) SyncIntegration(ctx context.Context, cfg types.IntegrationConfig) (*types.IntegrationResult, error) {
	return f(ctx, cfg)
}

const integrationsYAML = `
integrations:
  - name: vendas
    pipeId: "301"
    spreadsheetId: sheet-a
    sheetId: 0
    columns:
      title: true
      currentPhase: true
      startFormFields: true
  - pipeId: 302
    spreadsheetId: sheet-b
    sheetId: 1544
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// execute runs the root command with fresh flag values.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	jsonOutput, logFile, logLevel, configPath, headersPipe = false, "", "", "integrations.yaml", ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func stubRunner(t *testing.T, syncer synchronizer.Syncer) {
	t.Helper()
	origRunner, origStore := newRunner, openStore
	t.Cleanup(func() { newRunner, openStore = origRunner, origStore })

	openStore = func(ctx context.Context, cfg *bootstrap.Config) (shared.BlobStore, error) {
		return nil, nil
	}
	newRunner = func(ctx context.Context, cfg *bootstrap.Config, store shared.BlobStore, logger *slog.Logger) (*synchronizer.Runner, error) {
		return &synchronizer.Runner{Syncer: syncer, Logger: logger}, nil
	}
}

func TestLoadRequest_YAML(t *testing.T) {
	req, err := loadRequest(writeConfig(t, "integrations.yaml", integrationsYAML))
	require.NoError(t, err)
	require.Len(t, req.Integrations, 2)

	first := req.Integrations[0]
	assert.Equal(t, "vendas", first.Name)
	assert.Equal(t, "301", first.PipeID)
	assert.Equal(t, "sheet-a", first.SpreadsheetID)
	assert.True(t, first.Columns.Title)
	assert.True(t, first.Columns.CurrentPhase)
	assert.True(t, first.Columns.StartFormFields)
	assert.False(t, first.Columns.PhasesHistory)

	second := req.Integrations[1]
	assert.Equal(t, "302", second.PipeID)
	assert.Equal(t, int64(1544), second.SheetID)
}

func TestLoadRequest_JSON(t *testing.T) {
	path := writeConfig(t, "integrations.json",
		`{"integrations":[{"pipeId":"9","spreadsheetId":"s","sheetId":7,"columns":{"phasesHistory":true}}]}`)

	req, err := loadRequest(path)
	require.NoError(t, err)
	require.Len(t, req.Integrations, 1)
	assert.Equal(t, int64(7), req.Integrations[0].SheetID)
	assert.True(t, req.Integrations[0].Columns.PhasesHistory)
}

func TestLoadRequest_Errors(t *testing.T) {
	_, err := loadRequest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = loadRequest(writeConfig(t, "empty.yaml", "integrations: []\n"))
	assert.ErrorContains(t, err, "no integrations configured")
}

func TestRunCommand_PrintsResponse(t *testing.T) {
	var mu sync.Mutex
	var synced []string
	stubRunner(t, syncerFunc(func(ctx context.Context, cfg types.IntegrationConfig) (*types.IntegrationResult, error) {
		mu.Lock()
		synced = append(synced, cfg.PipeID)
		mu.Unlock()
		if cfg.PipeID == "302" {
			return &types.IntegrationResult{PipeID: cfg.PipeID}, errors.New("sheet add rows: quota exceeded")
		}
		return &types.IntegrationResult{PipeID: cfg.PipeID, Cards: 3}, nil
	}))

	out, err := execute(t, "run", "-c", writeConfig(t, "integrations.yaml", integrationsYAML))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"301", "302"}, synced)

	var body types.ResponseBody
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, types.MessagePartialError, body.Message)
	assert.Equal(t, []string{"sheet add rows: quota exceeded"}, body.Errors)
}

func TestRunCommand_JSONReport(t *testing.T) {
	stubRunner(t, syncerFunc(func(ctx context.Context, cfg types.IntegrationConfig) (*types.IntegrationResult, error) {
		return &types.IntegrationResult{PipeID: cfg.PipeID, Cards: 2}, nil
	}))

	out, err := execute(t, "run", "--json", "-c", writeConfig(t, "integrations.yaml", integrationsYAML))
	require.NoError(t, err)

	var report types.RunReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "301", report.Results[0].PipeID)
}

func TestRunCommand_LogFile(t *testing.T) {
	stubRunner(t, syncerFunc(func(ctx context.Context, cfg types.IntegrationConfig) (*types.IntegrationResult, error) {
		return &types.IntegrationResult{PipeID: cfg.PipeID}, errors.New("boom")
	}))
	logPath := filepath.Join(t.TempDir(), "pipesync.log")

	_, err := execute(t, "run", "--log-file", logPath, "-c", writeConfig(t, "integrations.yaml", integrationsYAML))
	require.NoError(t, err)

	logs, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logs), "boom")
}

func TestRunCommand_RunnerInitFails(t *testing.T) {
	stubRunner(t, nil)
	newRunner = func(ctx context.Context, cfg *bootstrap.Config, store shared.BlobStore, logger *slog.Logger) (*synchronizer.Runner, error) {
		return nil, errors.New("PIPEFY_PERSONAL_ACCESS_TOKEN is not set")
	}

	_, err := execute(t, "run", "-c", writeConfig(t, "integrations.yaml", integrationsYAML))
	assert.EqualError(t, err, "PIPEFY_PERSONAL_ACCESS_TOKEN is not set")
}

func TestHeadersCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"pipe":{
		  "start_form_fields":[{"label":"Prioridade","type":"select"}],
		  "phases":[{"name":"Fase 1","fields":[{"label":"Prazo","type":"due_date"}]},{"name":"Fase 2","fields":[]}]}}}`))
	}))
	defer srv.Close()
	t.Setenv("PIPEFY_PERSONAL_ACCESS_TOKEN", "tok")
	t.Setenv("PIPEFY_ENDPOINT", srv.URL)

	out, err := execute(t, "headers", "--json", "--pipe", "301")
	require.NoError(t, err)

	var headers []string
	require.NoError(t, json.Unmarshal([]byte(out), &headers))
	assert.Len(t, headers, 16)
	assert.Equal(t, sheetrow.ColumnID, headers[0])
	assert.Contains(t, headers, "Prioridade (Start form)")
	assert.Contains(t, headers, "Prazo (Fase 1)")
	assert.Equal(t, sheetrow.PhaseLastOutColumn("Fase 2"), headers[len(headers)-1])
}

func TestHeadersCommand_MissingToken(t *testing.T) {
	t.Setenv("PIPEFY_PERSONAL_ACCESS_TOKEN", "")

	_, err := execute(t, "headers", "--pipe", "301")
	assert.ErrorContains(t, err, "PIPEFY_PERSONAL_ACCESS_TOKEN")
}
