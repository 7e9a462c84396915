package synchronizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	httputil "github.com/pipesync/server/pkg/infrastructure/http"
	"github.com/pipesync/server/pkg/infrastructure/sentry"
	"github.com/pipesync/server/pkg/types"
)

// Syncer synchronizes a single integration. *Orchestrator implements it.
type Syncer interface {
	SyncIntegration(ctx context.Context, cfg types.IntegrationConfig) (*types.IntegrationResult, error)
}

// Runner runs integrations side by side. A failing integration never
// cancels or delays the others.
type Runner struct {
	Syncer Syncer
	Logger *slog.Logger
}

// Run waits for every integration to settle and reports them in input order.
func (r *Runner) Run(ctx context.Context, integrations []types.IntegrationConfig) *types.RunReport {
	syncer, logger := r.Syncer, r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	results := make([]types.IntegrationResult, len(integrations))

	var wg sync.WaitGroup
	for i, cfg := range integrations {
		i, cfg := i, cfg
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = runOne(ctx, syncer, cfg, logger.With("integration", cfg.Label()))
		}()
	}
	wg.Wait()

	report := &types.RunReport{Results: results}
	for _, res := range results {
		if res.Failed() {
			report.Failed++
		} else {
			report.Succeeded++
		}
	}
	return report
}

func runOne(ctx context.Context, syncer Syncer, cfg types.IntegrationConfig, logger *slog.Logger) (result types.IntegrationResult) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic: %v", p)
			result = types.IntegrationResult{
				Name:          cfg.Name,
				PipeID:        cfg.PipeID,
				SpreadsheetID: cfg.SpreadsheetID,
				SheetID:       cfg.SheetID,
				Error:         err.Error(),
			}
			logger.Error("Integration panicked", "error", err)
			sentry.CaptureException(err, integrationContext(cfg), logger)
		}
	}()

	res, err := syncer.SyncIntegration(ctx, cfg)
	if res != nil {
		result = *res
	}
	if err != nil {
		result.Error = err.Error()
		attrs := []any{"error", err}
		if status := httputil.StatusCode(err); status != 0 {
			attrs = append(attrs, "http_status", status)
		}
		logger.Error("Integration failed", attrs...)
		sentry.CaptureException(err, integrationContext(cfg), logger)
	}
	return result
}

func integrationContext(cfg types.IntegrationConfig) map[string]interface{} {
	return map[string]interface{}{
		"integration": map[string]interface{}{
			"name":           cfg.Name,
			"pipe_id":        cfg.PipeID,
			"spreadsheet_id": cfg.SpreadsheetID,
			"sheet_id":       cfg.SheetID,
		},
	}
}
