// Package types provides the CV data model shared by the store, renderer, validators and API.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Validate tags describe the form rules applied by the validation package before a
// record reaches the store. The store itself never checks them.

// PersonalInfo is the singleton header block of a CV document.
// ProfileImage is an opaque URI supplied by an image provider; empty means no photo.
type PersonalInfo struct {
	FullName     string `json:"full_name" validate:"required"`
	Email        string `json:"email" validate:"required,cv_email"`
	Phone        string `json:"phone" validate:"omitempty,phone_digits"`
	Location     string `json:"location"`
	Summary      string `json:"summary"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// Experience represents one work experience entry. An empty EndDate means the position is current.
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company" validate:"required"`
	Position    string `json:"position" validate:"required"`
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date,omitempty"`
	Description string `json:"description"`
}

// IsCurrent reports whether the position has no end date.
func (e Experience) IsCurrent() bool {
	return e.EndDate == ""
}

// Education represents one degree or program.
type Education struct {
	ID             string `json:"id"`
	Institution    string `json:"institution" validate:"required,letters"`
	Degree         string `json:"degree" validate:"required,letters"`
	Field          string `json:"field,omitempty"`
	GraduationYear string `json:"graduation_year"`
}

// Skill is a named technical skill with a proficiency level.
type Skill struct {
	ID    string     `json:"id"`
	Name  string     `json:"name" validate:"notblank"`
	Level SkillLevel `json:"level" validate:"skill_level"`
}

// CVDocument is the aggregate root holding one user's CV data.
// Slice order is display order.
type CVDocument struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Experiences  []Experience `json:"experiences"`
	Education    []Education  `json:"education"`
	Skills       []Skill      `json:"skills"`
}

// NewCVDocument returns the empty document a session starts with.
func NewCVDocument() CVDocument {
	return CVDocument{
		Experiences: []Experience{},
		Education:   []Education{},
		Skills:      []Skill{},
	}
}

// Clone returns a deep copy so the result shares no backing arrays with d.
func (d CVDocument) Clone() CVDocument {
	return CVDocument{
		PersonalInfo: d.PersonalInfo,
		Experiences:  cloneSlice(d.Experiences),
		Education:    cloneSlice(d.Education),
		Skills:       cloneSlice(d.Skills),
	}
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Completion summarizes how much of the document has been filled in.
type Completion struct {
	PersonalInfoComplete bool `json:"personal_info_complete"`
	HasPhoto             bool `json:"has_photo"`
	ExperienceCount      int  `json:"experience_count"`
	EducationCount       int  `json:"education_count"`
	SkillCount           int  `json:"skill_count"`
}

// Completion reports the document's fill status. Personal info counts as complete once
// both a name and an email are present.
func (d CVDocument) Completion() Completion {
	return Completion{
		PersonalInfoComplete: d.PersonalInfo.FullName != "" && d.PersonalInfo.Email != "",
		HasPhoto:             d.PersonalInfo.ProfileImage != "",
		ExperienceCount:      len(d.Experiences),
		EducationCount:       len(d.Education),
		SkillCount:           len(d.Skills),
	}
}
