package sheetrow

import (
	"strings"

	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/types"
)

// Row maps column names to display-ready cell values.
type Row map[string]string

// Flattener converts cards into rows.
type Flattener struct {
	// DateLabels are the column names whose raw value is kept (see DateFieldLabels).
	DateLabels map[string]bool
	Columns    types.Columns
	Locale     Locale
}

// Flatten converts one card. Toggled-off columns produce no key; toggled-on
// columns whose relation is absent produce "".
func (f *Flattener) Flatten(card pipefy.Card) Row {
	row := Row{}
	c := f.Columns

	if c.ID {
		row[ColumnID] = card.ID
	}
	if c.Title {
		row[ColumnTitle] = card.Title
	}
	if c.CurrentPhase {
		row[ColumnCurrentPhase] = ""
		if card.CurrentPhase != nil {
			row[ColumnCurrentPhase] = card.CurrentPhase.Name
		}
	}
	if c.Labels {
		row[ColumnLabels] = joinNames(card.Labels)
	}
	if c.Assignees {
		row[ColumnAssignees] = joinNames(card.Assignees)
	}
	if c.CreatedAt {
		row[ColumnCreatedAt] = f.Locale.Timestamp(card.CreatedAt)
	}
	if c.UpdatedAt {
		row[ColumnUpdatedAt] = f.Locale.Timestamp(card.UpdatedAt)
	}
	if c.DueDate {
		row[ColumnDueDate] = f.Locale.Timestamp(card.DueDate)
	}
	if c.PhasesHistory {
		f.addPhasesHistory(row, card.PhasesHistory)
	}
	if c.Fields() {
		f.addFields(row, card.Fields)
	}

	return row
}

// FlattenAll converts cards preserving their order.
func (f *Flattener) FlattenAll(cards []pipefy.Card) []Row {
	rows := make([]Row, 0, len(cards))
	for _, card := range cards {
		rows = append(rows, f.Flatten(card))
	}
	return rows
}

func (f *Flattener) addFields(row Row, fields []pipefy.CardField) {
	for _, field := range fields {
		phase := field.PhaseName()
		if phase == StartFormPhase && !f.Columns.StartFormFields {
			continue
		}
		if phase != StartFormPhase && !f.Columns.PhasesFormsFields {
			continue
		}

		key := ColumnName(field.Name, phase)
		if f.DateLabels[key] {
			row[key] = field.Value
		} else {
			row[key] = field.ReportValue
		}
	}
}

func (f *Flattener) addPhasesHistory(row Row, history []pipefy.PhaseHistoryEntry) {
	for _, entry := range history {
		phase := entry.PhaseName()
		row[PhaseDurationColumn(phase)] = f.Locale.Days(entry.Duration)
		row[PhaseFirstInColumn(phase)] = f.Locale.Timestamp(entry.FirstTimeIn)
		row[PhaseLastOutColumn(phase)] = f.Locale.Timestamp(entry.LastTimeOut)
	}
}

func joinNames(items []pipefy.Named) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return strings.Join(names, ",")
}
