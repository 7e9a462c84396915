package types

import (
	"errors"
	"fmt"
)

// Columns toggles the optional columns written to the destination sheet.
// JSON names match the invocation payload used by existing schedules.
type Columns struct {
	ID                bool `json:"id" mapstructure:"id" firestore:"id"`
	Title             bool `json:"title" mapstructure:"title" firestore:"title"`
	CurrentPhase      bool `json:"currentPhase" mapstructure:"currentPhase" firestore:"current_phase"`
	Labels            bool `json:"labels" mapstructure:"labels" firestore:"labels"`
	Assignees         bool `json:"assignees" mapstructure:"assignees" firestore:"assignees"`
	CreatedAt         bool `json:"createdAt" mapstructure:"createdAt" firestore:"created_at"`
	UpdatedAt         bool `json:"updatedAt" mapstructure:"updatedAt" firestore:"updated_at"`
	DueDate           bool `json:"dueDate" mapstructure:"dueDate" firestore:"due_date"`
	PhasesHistory     bool `json:"phasesHistory" mapstructure:"phasesHistory" firestore:"phases_history"`
	StartFormFields   bool `json:"startFormFields" mapstructure:"startFormFields" firestore:"start_form_fields"`
	PhasesFormsFields bool `json:"phasesFormsFields" mapstructure:"phasesFormsFields" firestore:"phases_forms_fields"`
}

// AllColumns enables every optional column.
func AllColumns() Columns {
	return Columns{
		ID:                true,
		Title:             true,
		CurrentPhase:      true,
		Labels:            true,
		Assignees:         true,
		CreatedAt:         true,
		UpdatedAt:         true,
		DueDate:           true,
		PhasesHistory:     true,
		StartFormFields:   true,
		PhasesFormsFields: true,
	}
}

// Fields reports whether any custom field column was requested.
// The remote card query has a single include flag for both kinds.
func (c Columns) Fields() bool {
	return c.StartFormFields || c.PhasesFormsFields
}

// PhasesData reports whether the phase list is needed, either for its
// fields or for the phase history columns.
func (c Columns) PhasesData() bool {
	return c.PhasesFormsFields || c.PhasesHistory
}

// IntegrationConfig is one pipe -> sheet synchronization unit.
type IntegrationConfig struct {
	Name          string  `json:"name,omitempty" mapstructure:"name"`
	PipeID        string  `json:"pipeId" mapstructure:"pipeId"`
	SpreadsheetID string  `json:"spreadsheetId" mapstructure:"spreadsheetId"`
	SheetID       int64   `json:"sheetId" mapstructure:"sheetId"`
	Columns       Columns `json:"columns" mapstructure:"columns"`
}

var ErrInvalidIntegration = errors.New("invalid integration")

// Validate checks the identifiers needed to reach both ends of the sync.
func (c IntegrationConfig) Validate() error {
	if c.PipeID == "" {
		return fmt.Errorf("%w: pipeId is required", ErrInvalidIntegration)
	}
	if c.SpreadsheetID == "" {
		return fmt.Errorf("%w: spreadsheetId is required for pipe %s", ErrInvalidIntegration, c.PipeID)
	}
	return nil
}

// Label identifies the integration in logs and reports.
func (c IntegrationConfig) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("pipe %s -> %s#%d", c.PipeID, c.SpreadsheetID, c.SheetID)
}

// SyncRequest is the invocation payload.
type SyncRequest struct {
	Integrations []IntegrationConfig `json:"integrations"`
}
