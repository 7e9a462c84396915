package firestore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pipesync/server/pkg/types"
)

func TestIntegrationRoundTrip(t *testing.T) {
	in := &types.IntegrationRecord{
		Enabled: true,
		IntegrationConfig: types.IntegrationConfig{
			Name:          "Vendas",
			PipeID:        "301",
			SpreadsheetID: "1AbC",
			SheetID:       42,
			Columns:       types.Columns{ID: true, PhasesHistory: true},
		},
	}

	m := IntegrationToFirestore(in)
	assert.Equal(t, "301", m["pipe_id"])
	assert.Equal(t, int64(42), m["sheet_id"])

	out := FirestoreToIntegration(m)
	assert.Equal(t, in, out)
}

func TestFirestoreToIntegration_LooseTypes(t *testing.T) {
	m := map[string]interface{}{
		"pipe_id":        int64(301),
		"spreadsheet_id": "1AbC",
		"sheet_id":       "42",
		"enabled":        true,
		"columns": map[string]interface{}{
			"title":               true,
			"phases_forms_fields": true,
		},
	}

	out := FirestoreToIntegration(m)
	assert.Equal(t, "301", out.PipeID)
	assert.Equal(t, int64(42), out.SheetID)
	assert.True(t, out.Columns.Title)
	assert.True(t, out.Columns.PhasesFormsFields)
	assert.False(t, out.Columns.ID)
}

func TestFirestoreToIntegration_MissingColumns(t *testing.T) {
	out := FirestoreToIntegration(map[string]interface{}{"pipe_id": "1"})
	assert.Equal(t, types.Columns{}, out.Columns)
	assert.False(t, out.Enabled)
}

func TestExecutionRoundTrip(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	in := &types.ExecutionRecord{
		ExecutionID:  "exec-1",
		Service:      "synchronizer",
		TriggerType:  "http",
		Status:       types.ExecutionStatusPartial,
		StartTime:    start,
		EndTime:      &end,
		Integrations: 3,
		Failures:     1,
		OutputsJSON:  `{"failed":1}`,
	}

	m := ExecutionToFirestore(in)
	assert.Equal(t, "PARTIAL", m["status"])

	// Firestore hands integers back as int64
	m["integrations"] = int64(3)
	m["failures"] = int64(1)
	assert.Equal(t, in, FirestoreToExecution(m))
}

func TestExecutionToFirestore_OmitsOpenEndTime(t *testing.T) {
	m := ExecutionToFirestore(&types.ExecutionRecord{ExecutionID: "exec-2", Status: types.ExecutionStatusStarted})
	_, ok := m["end_time"]
	assert.False(t, ok)
}
