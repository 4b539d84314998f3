// Package rendering turns a CV document snapshot into a self-contained styled HTML document
// suitable for printing to PDF.
package rendering

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/jonathan/cv-builder/internal/types"
)

//go:embed templates/cv.html.tmpl
var templateFS embed.FS

const defaultTemplateName = "templates/cv.html.tmpl"

// Fixed labels used by the document template.
const (
	LabelSummary    = "Professional Summary"
	LabelExperience = "Work Experience"
	LabelEducation  = "Education"
	LabelSkills     = "Technical Skills"
	LabelCurrent    = "Current"
	PlaceholderName = "Your Name"
	DefaultTitle    = "Curriculum Vitae"
)

const dateRangeSeparator = " - "

// TemplateData is the view model passed to the document template.
// All string fields hold raw user text; html/template escapes them at execution.
type TemplateData struct {
	Title        string
	Name         string
	ProfileImage template.HTML
	Email        string
	Phone        string
	Location     string
	Summary      string
	Experiences  []ExperienceView
	Education    []EducationView
	Skills       []SkillView
	Labels       Labels
}

// Labels holds the section headings.
type Labels struct {
	Summary    string
	Experience string
	Education  string
	Skills     string
}

// ExperienceView is one rendered work experience item.
type ExperienceView struct {
	Position    string
	Company     string
	DateRange   string
	Description string
}

// EducationView is one rendered education item.
type EducationView struct {
	Degree         string
	Field          string
	Institution    string
	GraduationYear string
}

// SkillView is one rendered skill.
type SkillView struct {
	Name  string
	Level string
}

// Renderer executes a parsed document template. It holds no mutable state and is safe
// for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer returns a renderer using the built-in template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := parseTemplate(templateFS, defaultTemplateName)
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// NewRendererFromFile returns a renderer using a custom html/template file.
func NewRendererFromFile(templatePath string) (*Renderer, error) {
	if _, err := os.Stat(templatePath); err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{
				Message: fmt.Sprintf("template file not found: %s", templatePath),
				Cause:   err,
			}
		}
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to read template file: %s", templatePath),
			Cause:   err,
		}
	}
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, &TemplateError{
			Message: "failed to parse template",
			Cause:   err,
		}
	}
	return &Renderer{tmpl: tmpl}, nil
}

var defaultRenderer = sync.OnceValues(NewRenderer)

// Render produces the HTML document for doc with the built-in template.
// The output depends only on doc.
func Render(doc types.CVDocument) (string, error) {
	r, err := defaultRenderer()
	if err != nil {
		return "", err
	}
	return r.Render(doc)
}

// Render produces the HTML document for doc.
func (r *Renderer) Render(doc types.CVDocument) (string, error) {
	data := BuildTemplateData(doc)

	var result strings.Builder
	if err := r.tmpl.Execute(&result, data); err != nil {
		return "", &TemplateError{
			Message: "failed to execute template",
			Cause:   err,
		}
	}
	return result.String(), nil
}

// BuildTemplateData maps a document onto the template view model in display order.
func BuildTemplateData(doc types.CVDocument) TemplateData {
	info := doc.PersonalInfo

	data := TemplateData{
		Title:        fallback(info.FullName, DefaultTitle),
		Name:         fallback(info.FullName, PlaceholderName),
		ProfileImage: ProfileImageTag(info.ProfileImage),
		Email:        info.Email,
		Phone:        info.Phone,
		Location:     info.Location,
		Summary:      info.Summary,
		Labels: Labels{
			Summary:    LabelSummary,
			Experience: LabelExperience,
			Education:  LabelEducation,
			Skills:     LabelSkills,
		},
	}

	for _, exp := range doc.Experiences {
		data.Experiences = append(data.Experiences, ExperienceView{
			Position:    exp.Position,
			Company:     exp.Company,
			DateRange:   FormatDateRange(exp),
			Description: exp.Description,
		})
	}

	for _, edu := range doc.Education {
		data.Education = append(data.Education, EducationView{
			Degree:         edu.Degree,
			Field:          edu.Field,
			Institution:    edu.Institution,
			GraduationYear: edu.GraduationYear,
		})
	}

	for _, skill := range doc.Skills {
		data.Skills = append(data.Skills, SkillView{
			Name:  skill.Name,
			Level: skill.Level.String(),
		})
	}

	return data
}

// FormatDateRange renders "start - end", using the Current label for a current position.
func FormatDateRange(exp types.Experience) string {
	if exp.IsCurrent() {
		return exp.StartDate + dateRangeSeparator + LabelCurrent
	}
	return exp.StartDate + dateRangeSeparator + exp.EndDate
}

// DocumentTitle returns the <title> text Render uses for doc.
func DocumentTitle(doc types.CVDocument) string {
	return fallback(doc.PersonalInfo.FullName, DefaultTitle)
}

func parseTemplate(fsys fs.FS, name string) (*template.Template, error) {
	tmpl, err := template.ParseFS(fsys, name)
	if err != nil {
		return nil, &TemplateError{
			Message: fmt.Sprintf("failed to parse template %s", name),
			Cause:   err,
		}
	}
	return tmpl, nil
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
