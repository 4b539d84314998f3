// Package schemas provides JSON Schema validation for serialized CV documents.
package schemas

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	cvschemas "github.com/jonathan/cv-builder/schemas"
)

const documentSchemaName = "cv_document.schema.json"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var documentSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(cvschemas.CVDocument))
	if err != nil {
		return nil, &SchemaLoadError{Path: documentSchemaName, Message: "invalid schema", Cause: err}
	}
	return schema, nil
})

// ValidateDocument validates serialized CV document JSON against the embedded schema,
// then rejects records that reuse an id within their collection.
func ValidateDocument(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to parse document JSON: %w", err)
	}
	if err := toValidationError(result); err != nil {
		return err
	}
	return checkUniqueIDs(data)
}

// documentIDs holds just the record ids of a serialized document.
type documentIDs struct {
	Experiences []recordID `json:"experiences"`
	Education   []recordID `json:"education"`
	Skills      []recordID `json:"skills"`
}

type recordID struct {
	ID string `json:"id"`
}

// checkUniqueIDs reports every record whose id repeats an earlier one in the same collection.
func checkUniqueIDs(data []byte) error {
	var ids documentIDs
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("failed to parse document JSON: %w", err)
	}

	var errs []FieldError
	check := func(collection string, records []recordID) {
		seen := make(map[string]bool, len(records))
		for i, rec := range records {
			if seen[rec.ID] {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s.%d.id", collection, i),
					Message: fmt.Sprintf("duplicate id %q", rec.ID),
				})
			}
			seen[rec.ID] = true
		}
	}
	check("experiences", ids.Experiences)
	check("education", ids.Education)
	check("skills", ids.Skills)

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
