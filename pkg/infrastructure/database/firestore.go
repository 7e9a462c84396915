package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	storage "github.com/pipesync/server/pkg/storage/firestore"
	"github.com/pipesync/server/pkg/types"
)

// FirestoreAdapter provides database operations using Firestore
// It wraps our typed storage client
type FirestoreAdapter struct {
	storage *storage.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{
		storage: storage.NewClient(client),
	}
}

func (a *FirestoreAdapter) SetExecution(ctx context.Context, record *types.ExecutionRecord) error {
	return a.storage.Executions().Doc(record.ExecutionID).Set(ctx, record)
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	return a.storage.Executions().Doc(id).Update(ctx, data)
}

func (a *FirestoreAdapter) ListIntegrations(ctx context.Context, enabledOnly bool) ([]*types.IntegrationRecord, error) {
	query := a.storage.Integrations().All()
	if enabledOnly {
		query = a.storage.Integrations().Where("enabled", "==", true)
	}

	docs, err := query.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list integrations: %w", err)
	}

	records := make([]*types.IntegrationRecord, 0, len(docs))
	for _, doc := range docs {
		doc.Data.ID = doc.ID
		records = append(records, doc.Data)
	}
	return records, nil
}
