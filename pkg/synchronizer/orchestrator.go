package synchronizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	"golang.org/x/sync/errgroup"

	"github.com/pipesync/server/pkg/destination"
	"github.com/pipesync/server/pkg/domain/sheetrow"
	"github.com/pipesync/server/pkg/infrastructure/sentry"
	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/types"
)

// Orchestrator synchronizes one integration at a time. It holds no
// per-integration state and is safe for concurrent use.
type Orchestrator struct {
	Client QueryClient
	Sheets destination.Opener
	Locale sheetrow.Locale

	// Archiver is optional.
	Archiver Archiver
	Logger   *slog.Logger
}

// SyncIntegration replaces the content of the integration's sheet with the
// current cards of its pipe. The returned result is never nil.
func (o *Orchestrator) SyncIntegration(ctx context.Context, cfg types.IntegrationConfig) (*types.IntegrationResult, error) {
	start := time.Now()
	result := &types.IntegrationResult{
		Name:          cfg.Name,
		PipeID:        cfg.PipeID,
		SpreadsheetID: cfg.SpreadsheetID,
		SheetID:       cfg.SheetID,
	}
	defer func() {
		result.Duration = time.Since(start)
	}()

	logger := o.Logger.With(
		"pipe_id", cfg.PipeID,
		"spreadsheet_id", cfg.SpreadsheetID,
		"sheet_id", cfg.SheetID,
	)

	if err := cfg.Validate(); err != nil {
		return result, err
	}

	cursors, err := DiscoverCursors(ctx, o.Client, cfg.PipeID)
	if err != nil {
		return result, fmt.Errorf("discover cursors: %w", err)
	}
	logger.Info("Discovered pages", "pages", len(cursors)+1)

	var (
		cards  []pipefy.Card
		schema *sheetrow.Schema
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := FetchCards(gctx, o.Client, cfg.PipeID, cursors, cfg.Columns)
		if err != nil {
			return fmt.Errorf("fetch cards: %w", err)
		}
		cards = fetched
		return nil
	})
	g.Go(func() error {
		resolved, err := ResolveSchema(gctx, o.Client, cfg.PipeID, cfg.Columns)
		if err != nil {
			return fmt.Errorf("resolve schema: %w", err)
		}
		schema = resolved
		return nil
	})
	if err := g.Wait(); err != nil {
		return result, err
	}

	flattener := &sheetrow.Flattener{
		DateLabels: sheetrow.DateFieldLabels(schema.Fields),
		Columns:    cfg.Columns,
		Locale:     o.Locale,
	}
	rows := flattener.FlattenAll(cards)

	headers := sheetrow.BuildHeaders(schema.Phases, schema.Fields, cfg.Columns)
	if missing := headers.Missing(rows); len(missing) > 0 {
		// cards keep values of fields whose phase was removed from the pipe
		logger.Warn("Cards carry columns missing from the pipe schema", "columns", missing)
		sentry.CaptureMessage("Cards carry columns missing from the pipe schema", sentrygo.LevelWarning,
			map[string]interface{}{
				"integration": integrationContext(cfg)["integration"],
				"columns":     missing,
			}, logger)
		headers = headers.Extend(missing)
	}

	sheet, err := o.Sheets.Open(ctx, cfg.SpreadsheetID, cfg.SheetID)
	if err != nil {
		return result, fmt.Errorf("write sheet: %w", err)
	}
	if err := destination.Write(ctx, sheet, headers, rows, logger); err != nil {
		return result, fmt.Errorf("write sheet: %w", err)
	}

	result.Cards = len(cards)
	result.Headers = len(headers)
	logger.Info("Integration synchronized", "cards", result.Cards, "headers", result.Headers)

	if o.Archiver != nil {
		object, err := o.Archiver.Archive(ctx, cfg, headers, rows)
		if err != nil {
			logger.Warn("Failed to archive snapshot", "error", err)
		} else {
			logger.Debug("Snapshot archived", "object", object)
		}
	}

	return result, nil
}
