package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a CV document against the schema and form rules",
	Long:  "Validates a CV JSON document against the JSON schema, then applies the form rules (email and phone format, letters-only institution and degree, skill levels) to every record.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidate(validateIn, cmd.OutOrStdout())
	},
}

var validateIn string

func init() {
	validateCmd.Flags().StringVarP(&validateIn, "in", "i", "", "Path to CV JSON file (required)")
	_ = validateCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(validateCmd)
}

// errInvalidDocument is returned after the problems have been printed.
var errInvalidDocument = errors.New("document is invalid")

func runValidate(path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}

	printer := observability.NewPrinter(out)

	if err := schemas.ValidateDocument(data); err != nil {
		var schemaErr *schemas.ValidationError
		if !errors.As(err, &schemaErr) {
			return err
		}
		problems := make([]observability.Problem, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			problems = append(problems, observability.Problem{Field: fe.Field, Message: fe.Message})
		}
		printer.PrintValidation(problems)
		return errInvalidDocument
	}

	var doc types.CVDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse CV file: %w", err)
	}

	problems := formProblems(doc)
	printer.PrintValidation(problems)
	if len(problems) > 0 {
		return errInvalidDocument
	}
	return nil
}

// formProblems applies the form rules to every record, prefixing fields with the record's position.
func formProblems(doc types.CVDocument) []observability.Problem {
	var problems []observability.Problem
	collect := func(prefix string, err error) {
		var formErr *validation.Errors
		if !errors.As(err, &formErr) {
			return
		}
		for _, fe := range formErr.Fields {
			problems = append(problems, observability.Problem{Field: prefix + "." + fe.Field, Message: fe.Message})
		}
	}

	collect("personal_info", validation.PersonalInfo(doc.PersonalInfo))
	for i, exp := range doc.Experiences {
		collect(fmt.Sprintf("experiences.%d", i), validation.Experience(exp))
	}
	for i, edu := range doc.Education {
		collect(fmt.Sprintf("education.%d", i), validation.Education(edu))
	}
	for i, skill := range doc.Skills {
		collect(fmt.Sprintf("skills.%d", i), validation.Skill(skill.Name, skill.Level))
	}
	return problems
}
