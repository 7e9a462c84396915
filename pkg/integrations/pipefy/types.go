package pipefy

// PageInfo is the Relay-style pagination block of a connection.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// Named is any relation the sheet only needs the name of.
type Named struct {
	Name string `json:"name"`
}

// FieldOwner links a card field to the phase declaring it.
type FieldOwner struct {
	Phase *Named `json:"phase"`
}

// CardField is one filled custom field of a card.
type CardField struct {
	Name        string      `json:"name"`
	Value       string      `json:"value"`
	ReportValue string      `json:"report_value"`
	PhaseField  *FieldOwner `json:"phase_field"`
}

// PhaseName returns the name of the phase (or start form) owning the field.
func (f CardField) PhaseName() string {
	if f.PhaseField == nil || f.PhaseField.Phase == nil {
		return ""
	}
	return f.PhaseField.Phase.Name
}

// PhaseHistoryEntry records how long a card stayed in a phase.
type PhaseHistoryEntry struct {
	Phase       *Named  `json:"phase"`
	Duration    float64 `json:"duration"` // seconds
	FirstTimeIn string  `json:"firstTimeIn"`
	LastTimeOut string  `json:"lastTimeOut"`
}

// PhaseName returns the phase name, or "" when the relation is missing.
func (e PhaseHistoryEntry) PhaseName() string {
	if e.Phase == nil {
		return ""
	}
	return e.Phase.Name
}

// Card is a workflow item. Attributes excluded by the query's include flags
// are left at their zero values.
type Card struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	CurrentPhase  *Named              `json:"current_phase"`
	Labels        []Named             `json:"labels"`
	Assignees     []Named             `json:"assignees"`
	CreatedAt     string              `json:"createdAt"`
	UpdatedAt     string              `json:"updated_at"`
	DueDate       string              `json:"due_date"`
	Fields        []CardField         `json:"fields"`
	PhasesHistory []PhaseHistoryEntry `json:"phases_history"`
}

// FieldDefinition is a declared field of a phase or of the start form.
type FieldDefinition struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Phase is one stage of a pipe.
type Phase struct {
	Name   string            `json:"name"`
	Fields []FieldDefinition `json:"fields"`
}

// Pipe is the workflow template: intake form plus ordered phases.
type Pipe struct {
	StartFormFields []FieldDefinition `json:"start_form_fields"`
	Phases          []Phase           `json:"phases"`
}

// CardsQuery selects one page of cards and the columns to include.
type CardsQuery struct {
	PipeID string
	// After is the page cursor; empty selects the first page.
	After         string
	ID            bool
	Title         bool
	CurrentPhase  bool
	Labels        bool
	Assignees     bool
	CreatedAt     bool
	UpdatedAt     bool
	DueDate       bool
	Fields        bool
	PhasesHistory bool
}

// PipeQuery selects which parts of the pipe schema to load.
type PipeQuery struct {
	PipeID            string
	StartFormFields   bool
	PhasesData        bool
	PhasesFormsFields bool
}
