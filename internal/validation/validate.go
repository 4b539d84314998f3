package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-builder/internal/types"
)

var (
	emailPattern   = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)
	phonePattern   = regexp.MustCompile(`^\d{10}$`)
	lettersPattern = regexp.MustCompile(`^[A-Za-zÁÉÍÓÚáéíóúÑñÜü\s]+$`)
)

const dateLayout = "2006-01-02"

var formValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	mustRegister(v, "cv_email", matches(emailPattern))
	mustRegister(v, "phone_digits", matches(phonePattern))
	mustRegister(v, "letters", matches(lettersPattern))
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "skill_level", func(fl validator.FieldLevel) bool {
		level, ok := fl.Field().Interface().(types.SkillLevel)
		return ok && level.Valid()
	})

	v.RegisterStructValidation(experienceDates, types.Experience{})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// experienceDates rejects an end date before the start date when both are ISO dates.
// Other date formats are accepted as entered.
func experienceDates(sl validator.StructLevel) {
	exp := sl.Current().Interface().(types.Experience)
	if exp.EndDate == "" {
		return
	}

	start, startErr := time.Parse(dateLayout, exp.StartDate)
	end, endErr := time.Parse(dateLayout, exp.EndDate)
	if startErr != nil || endErr != nil {
		return
	}

	if end.Before(start) {
		sl.ReportError(exp.EndDate, "end_date", "EndDate", "after_start", "")
	}
}

// PersonalInfo checks the personal info form.
func PersonalInfo(info types.PersonalInfo) error {
	return check("personal info", info)
}

// Experience checks a work experience entry.
func Experience(exp types.Experience) error {
	return check("experience", exp)
}

// Education checks an education entry.
func Education(edu types.Education) error {
	return check("education", edu)
}

// Skill checks a skill name and level as entered in the skills form.
func Skill(name string, level types.SkillLevel) error {
	return check("skill", types.Skill{Name: name, Level: level})
}

// Document checks every record in doc and returns the first failure.
func Document(doc types.CVDocument) error {
	if err := PersonalInfo(doc.PersonalInfo); err != nil {
		return err
	}
	for _, exp := range doc.Experiences {
		if err := Experience(exp); err != nil {
			return err
		}
	}
	for _, edu := range doc.Education {
		if err := Education(edu); err != nil {
			return err
		}
	}
	for _, skill := range doc.Skills {
		if err := Skill(skill.Name, skill.Level); err != nil {
			return err
		}
	}
	return nil
}

func check(record string, s any) error {
	err := formValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &Errors{Record: record}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "cv_email":
		return "must be a valid email address"
	case "phone_digits":
		return "must contain exactly 10 digits"
	case "letters":
		return "must contain only letters and spaces"
	case "notblank":
		return "must not be blank"
	case "skill_level":
		return "must be one of Basic, Intermediate, Advanced, Expert"
	case "after_start":
		return "must not be before the start date"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
