package sheetrow

import (
	"fmt"
	"sort"

	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/types"
)

// Fixed column names, as read by the sheets' consumers.
const (
	ColumnID           = "Id"
	ColumnTitle        = "Título"
	ColumnCurrentPhase = "Fase atual"
	ColumnLabels       = "Etiquetas"
	ColumnAssignees    = "Responsáveis"
	ColumnCreatedAt    = "Criado em"
	ColumnUpdatedAt    = "Atualizado em"
	ColumnDueDate      = "Data de vencimento do card"
)

// PhaseDurationColumn names the days-in-phase column of a phase.
func PhaseDurationColumn(phase string) string {
	return fmt.Sprintf("Tempo total na fase %s (dias)", phase)
}

// PhaseFirstInColumn names the first-entry column of a phase.
func PhaseFirstInColumn(phase string) string {
	return fmt.Sprintf("Primeira vez que entrou na fase %s", phase)
}

// PhaseLastOutColumn names the last-exit column of a phase.
func PhaseLastOutColumn(phase string) string {
	return fmt.Sprintf("Última vez que saiu da fase %s", phase)
}

// Headers is the ordered column list of one sheet.
type Headers []string

// BuildHeaders derives the header row from the schema alone, so columns
// exist even when no card fills them.
func BuildHeaders(phases []pipefy.Phase, fields []Field, columns types.Columns) Headers {
	headers := Headers{}

	fixed := []struct {
		enabled bool
		name    string
	}{
		{columns.ID, ColumnID},
		{columns.Title, ColumnTitle},
		{columns.CurrentPhase, ColumnCurrentPhase},
		{columns.Labels, ColumnLabels},
		{columns.Assignees, ColumnAssignees},
		{columns.CreatedAt, ColumnCreatedAt},
		{columns.UpdatedAt, ColumnUpdatedAt},
		{columns.DueDate, ColumnDueDate},
	}
	for _, col := range fixed {
		if col.enabled {
			headers = append(headers, col.name)
		}
	}

	for _, f := range fields {
		headers = append(headers, f.Label)
	}

	if columns.PhasesHistory {
		for _, phase := range phases {
			headers = append(headers,
				PhaseDurationColumn(phase.Name),
				PhaseFirstInColumn(phase.Name),
				PhaseLastOutColumn(phase.Name),
			)
		}
	}

	return headers
}

// Missing returns the row keys that have no column, sorted.
func (h Headers) Missing(rows []Row) []string {
	known := make(map[string]bool, len(h))
	for _, name := range h {
		known[name] = true
	}

	var missing []string
	for _, row := range rows {
		for key := range row {
			if !known[key] {
				known[key] = true
				missing = append(missing, key)
			}
		}
	}
	sort.Strings(missing)
	return missing
}

// Extend returns h followed by names. h is not modified.
func (h Headers) Extend(names []string) Headers {
	out := make(Headers, 0, len(h)+len(names))
	out = append(out, h...)
	return append(out, names...)
}
