// Package archive keeps CSV snapshots of synchronized sheets in blob storage.
package archive

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	shared "github.com/pipesync/server/pkg"
	"github.com/pipesync/server/pkg/domain/sheetrow"
	"github.com/pipesync/server/pkg/types"
)

// Snapshotter writes one object per synchronized integration.
type Snapshotter struct {
	Store  shared.BlobStore
	Bucket string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Archive stores headers and rows as
// snapshots/<pipe id>/<sheet id>/<RFC3339 time>.csv and returns the object name.
func (s *Snapshotter) Archive(ctx context.Context, cfg types.IntegrationConfig, headers sheetrow.Headers, rows []sheetrow.Row) (string, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	object := ObjectName(cfg, now())

	data, err := EncodeCSV(headers, rows)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.Store.Write(ctx, s.Bucket, object, data); err != nil {
		return "", err
	}
	return object, nil
}

// ObjectName is the snapshot path of an integration at t.
func ObjectName(cfg types.IntegrationConfig, t time.Time) string {
	return fmt.Sprintf("snapshots/%s/%d/%s.csv", cfg.PipeID, cfg.SheetID, t.UTC().Format(time.RFC3339))
}

// EncodeCSV renders the header row followed by rows in header order.
func EncodeCSV(headers sheetrow.Headers, rows []sheetrow.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(headers); err != nil {
		return nil, err
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, h := range headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
