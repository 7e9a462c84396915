package shared

import (
	"context"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/pipesync/server/pkg/types"
)

// --- Persistence Interfaces ---

type Database interface {
	SetExecution(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error

	// Integration registry
	ListIntegrations(ctx context.Context, enabledOnly bool) ([]*types.IntegrationRecord, error)
}

// --- Messaging Interfaces ---

type Publisher interface {
	PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error)
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}
