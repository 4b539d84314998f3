// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Problem is one labelled failure shown in a validation report.
type Problem struct {
	Field   string
	Message string
}

// Printer handles formatted output for CLI reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// printBanner prints a single-line box.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBanner(text string) {
	fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, text)
	fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// PrintCompletion outputs which parts of the document have been filled in.
func (p *Printer) PrintCompletion(c types.Completion) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s Personal information\n", mark(c.PersonalInfoComplete)))
	sb.WriteString(fmt.Sprintf("%s Profile photo\n", mark(c.HasPhoto)))
	sb.WriteString(fmt.Sprintf("%s Experience (%d)\n", mark(c.ExperienceCount > 0), c.ExperienceCount))
	sb.WriteString(fmt.Sprintf("%s Education (%d)\n", mark(c.EducationCount > 0), c.EducationCount))
	sb.WriteString(fmt.Sprintf("%s Skills (%d)", mark(c.SkillCount > 0), c.SkillCount))

	p.printBox("CV COMPLETION", sb.String())
}

// PrintDocumentSummary outputs a human-readable summary of the document's sections.
func (p *Printer) PrintDocumentSummary(doc types.CVDocument) {
	var sb strings.Builder

	info := doc.PersonalInfo
	sb.WriteString(fmt.Sprintf("Name:     %s\n", fallback(info.FullName, "-")))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", fallback(info.Email, "-")))
	if info.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", info.Phone))
	}
	if info.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", info.Location))
	}
	sb.WriteString("\n")

	if len(doc.Experiences) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(doc.Experiences), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := doc.Experiences[i]
			sb.WriteString(fmt.Sprintf("  • %s @ %s\n", exp.Position, exp.Company))
			sb.WriteString(fmt.Sprintf("    %s\n", rendering.FormatDateRange(exp)))
		}
		if len(doc.Experiences) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Experiences)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(doc.Education) > 0 {
		sb.WriteString("Education:\n")
		count := min(len(doc.Education), maxItemsToShow)
		for i := 0; i < count; i++ {
			edu := doc.Education[i]
			line := fmt.Sprintf("  • %s, %s", edu.Degree, edu.Institution)
			if edu.GraduationYear != "" {
				line += fmt.Sprintf(" (%s)", edu.GraduationYear)
			}
			sb.WriteString(line + "\n")
		}
		if len(doc.Education) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(doc.Education)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(doc.Skills) > 0 {
		names := make([]string, 0, len(doc.Skills))
		for _, skill := range doc.Skills {
			names = append(names, fmt.Sprintf("%s (%s)", skill.Name, skill.Level))
		}
		sb.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(names, ", ")))
	}

	p.printBox(strings.ToUpper(rendering.DocumentTitle(doc)), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidation outputs the problems found in a document, or a success banner when there are none.
func (p *Printer) PrintValidation(problems []Problem) {
	if len(problems) == 0 {
		p.printBanner("✅ DOCUMENT IS VALID")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(problems)))

	for i, problem := range problems {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", problem.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", problem.Message))
		if i < len(problems)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VALIDATION PROBLEMS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintArtifact outputs where an export was written.
func (p *Printer) PrintArtifact(title, path string, size int) {
	p.printBox("EXPORTED", fmt.Sprintf("Title: %s\nPath:  %s\nSize:  %d bytes", title, path, size))
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
