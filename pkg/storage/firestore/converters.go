package firestore

import (
	"strconv"
	"time"

	"github.com/pipesync/server/pkg/types"
)

// Helper to safely get string from map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Helper to safely get bool from map
func getBool(m map[string]interface{}, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// Helper to safely get an integer from map. Firestore decodes integers as
// int64; documents edited by hand in the console may hold doubles, and
// legacy documents store the gid as a string.
func getInt64(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

func getTime(m map[string]interface{}, key string) time.Time {
	if v, ok := m[key]; ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// --- Execution Record ---

func ExecutionToFirestore(e *types.ExecutionRecord) map[string]interface{} {
	m := map[string]interface{}{
		"execution_id":  e.ExecutionID,
		"service":       e.Service,
		"trigger_type":  e.TriggerType,
		"status":        string(e.Status),
		"start_time":    e.StartTime,
		"integrations":  e.Integrations,
		"failures":      e.Failures,
		"outputs_json":  e.OutputsJSON,
		"error_message": e.ErrorMessage,
	}
	if e.EndTime != nil {
		m["end_time"] = *e.EndTime
	}
	return m
}

func FirestoreToExecution(m map[string]interface{}) *types.ExecutionRecord {
	e := &types.ExecutionRecord{
		ExecutionID:  getString(m, "execution_id"),
		Service:      getString(m, "service"),
		TriggerType:  getString(m, "trigger_type"),
		Status:       types.ExecutionStatus(getString(m, "status")),
		StartTime:    getTime(m, "start_time"),
		Integrations: int(getInt64(m, "integrations")),
		Failures:     int(getInt64(m, "failures")),
		OutputsJSON:  getString(m, "outputs_json"),
		ErrorMessage: getString(m, "error_message"),
	}
	if t := getTime(m, "end_time"); !t.IsZero() {
		e.EndTime = &t
	}
	return e
}

// --- Integration Record ---

func columnsToFirestore(c types.Columns) map[string]interface{} {
	return map[string]interface{}{
		"id":                  c.ID,
		"title":               c.Title,
		"current_phase":       c.CurrentPhase,
		"labels":              c.Labels,
		"assignees":           c.Assignees,
		"created_at":          c.CreatedAt,
		"updated_at":          c.UpdatedAt,
		"due_date":            c.DueDate,
		"phases_history":      c.PhasesHistory,
		"start_form_fields":   c.StartFormFields,
		"phases_forms_fields": c.PhasesFormsFields,
	}
}

func firestoreToColumns(m map[string]interface{}) types.Columns {
	return types.Columns{
		ID:                getBool(m, "id"),
		Title:             getBool(m, "title"),
		CurrentPhase:      getBool(m, "current_phase"),
		Labels:            getBool(m, "labels"),
		Assignees:         getBool(m, "assignees"),
		CreatedAt:         getBool(m, "created_at"),
		UpdatedAt:         getBool(m, "updated_at"),
		DueDate:           getBool(m, "due_date"),
		PhasesHistory:     getBool(m, "phases_history"),
		StartFormFields:   getBool(m, "start_form_fields"),
		PhasesFormsFields: getBool(m, "phases_forms_fields"),
	}
}

func IntegrationToFirestore(i *types.IntegrationRecord) map[string]interface{} {
	return map[string]interface{}{
		"name":           i.Name,
		"pipe_id":        i.PipeID,
		"spreadsheet_id": i.SpreadsheetID,
		"sheet_id":       i.SheetID,
		"enabled":        i.Enabled,
		"columns":        columnsToFirestore(i.Columns),
	}
}

func FirestoreToIntegration(m map[string]interface{}) *types.IntegrationRecord {
	i := &types.IntegrationRecord{
		Enabled: getBool(m, "enabled"),
		IntegrationConfig: types.IntegrationConfig{
			Name:          getString(m, "name"),
			PipeID:        getString(m, "pipe_id"),
			SpreadsheetID: getString(m, "spreadsheet_id"),
			SheetID:       getInt64(m, "sheet_id"),
		},
	}
	// pipe ids are numeric in the remote API and sometimes stored as numbers
	if i.PipeID == "" {
		if n := getInt64(m, "pipe_id"); n != 0 {
			i.PipeID = strconv.FormatInt(n, 10)
		}
	}
	if cMap, ok := m["columns"].(map[string]interface{}); ok {
		i.Columns = firestoreToColumns(cMap)
	}
	return i
}
