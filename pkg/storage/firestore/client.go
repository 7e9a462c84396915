package firestore

import (
	"cloud.google.com/go/firestore"

	"github.com/pipesync/server/pkg/types"
)

type Client struct {
	fs *firestore.Client
}

func NewClient(client *firestore.Client) *Client {
	return &Client{fs: client}
}

func (c *Client) Close() error {
	return c.fs.Close()
}

// Executions is the run history: executions/{execution_id}
func (c *Client) Executions() *Collection[types.ExecutionRecord] {
	return &Collection[types.ExecutionRecord]{
		Ref:           c.fs.Collection("executions"),
		ToFirestore:   ExecutionToFirestore,
		FromFirestore: FirestoreToExecution,
	}
}

// Integrations is the registry read by scheduled runs: integrations/{id}
func (c *Client) Integrations() *Collection[types.IntegrationRecord] {
	return &Collection[types.IntegrationRecord]{
		Ref:           c.fs.Collection("integrations"),
		ToFirestore:   IntegrationToFirestore,
		FromFirestore: FirestoreToIntegration,
	}
}
