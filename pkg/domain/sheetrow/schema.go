// Package sheetrow turns pipe schemas and cards into spreadsheet headers and rows.
package sheetrow

import (
	"fmt"

	"github.com/pipesync/server/pkg/integrations/pipefy"
)

// StartFormPhase is the name Pipefy gives the intake form when it owns a field.
const StartFormPhase = "Start form"

// Field types whose raw value is written instead of the report value.
var dateFieldTypes = map[string]bool{
	"date":     true,
	"datetime": true,
	"due_date": true,
}

// Field is a declared pipe field with its sheet column label.
type Field struct {
	// Label is "<field label> (<phase name>)", unique across phases.
	Label string
	Type  string
	Phase string
}

// Schema is the resolved column source of a pipe.
type Schema struct {
	Phases []pipefy.Phase
	Fields []Field
}

// ColumnName disambiguates a field name by its owning phase.
func ColumnName(name, phase string) string {
	return fmt.Sprintf("%s (%s)", name, phase)
}

// ResolveFields flattens the start form fields followed by each phase's
// fields, keeping the order declared by the pipe.
func ResolveFields(pipe *pipefy.Pipe) *Schema {
	schema := &Schema{}
	if pipe == nil {
		return schema
	}
	schema.Phases = pipe.Phases

	for _, f := range pipe.StartFormFields {
		schema.Fields = append(schema.Fields, Field{
			Label: ColumnName(f.Label, StartFormPhase),
			Type:  f.Type,
			Phase: StartFormPhase,
		})
	}
	for _, phase := range pipe.Phases {
		for _, f := range phase.Fields {
			schema.Fields = append(schema.Fields, Field{
				Label: ColumnName(f.Label, phase.Name),
				Type:  f.Type,
				Phase: phase.Name,
			})
		}
	}
	return schema
}

// DateFieldLabels returns the labels of date-like fields.
func DateFieldLabels(fields []Field) map[string]bool {
	labels := make(map[string]bool)
	for _, f := range fields {
		if dateFieldTypes[f.Type] {
			labels[f.Label] = true
		}
	}
	return labels
}
