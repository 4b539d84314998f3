// Package validation applies the CV form rules to records before they are handed to the
// document store.
package validation

import (
	"fmt"
	"strings"
)

// FieldError is a single rule violation on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every violation found on one record.
type Errors struct {
	Record string       `json:"record"`
	Fields []FieldError `json:"fields"`
}

func (e *Errors) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid %s:", e.Record))
	for i, f := range e.Fields {
		if i > 0 {
			sb.WriteString(";")
		}
		sb.WriteString(fmt.Sprintf(" %s: %s", f.Field, f.Message))
	}
	return sb.String()
}

// Has reports whether field has at least one violation.
func (e *Errors) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
