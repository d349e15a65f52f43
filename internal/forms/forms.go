// Package forms is the declarative pre-submission validation layer. Rules
// live on struct tags, including cross-field ones (confirm password, salary
// range) and conditional requiredness keyed on the chosen role. Validation
// is advisory: it blocks a submit, it never touches the state store.
package forms

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterForm struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	FirstName       string `json:"firstName" validate:"required,min=1,max=60"`
	LastName        string `json:"lastName" validate:"required,min=1,max=60"`
}

type JobSeekerProfileForm struct {
	Title     string   `json:"title" validate:"required,min=2,max=120"`
	Summary   string   `json:"summary" validate:"required,min=10,max=2000"`
	Skills    []string `json:"skills" validate:"omitempty,dive,required"`
	MinSalary int      `json:"minSalary" validate:"omitempty,min=0"`
	MaxSalary int      `json:"maxSalary" validate:"omitempty,gtefield=MinSalary"`
}

type EmployerProfileForm struct {
	CompanyName string `json:"companyName" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"required,min=10,max=2000"`
	Industry    string `json:"industry" validate:"required"`
	CompanySize string `json:"companySize" validate:"required,oneof=1-10 11-50 51-200 201-500 501-1000 1000+"`
	Website     string `json:"website" validate:"omitempty,url"`
}

// ChooseRoleForm gates the role-selection page; company name is only
// required once the employer role is picked.
type ChooseRoleForm struct {
	Role        string `json:"role" validate:"required,oneof=job_seeker employer admin"`
	FirstName   string `json:"firstName" validate:"required,min=1,max=60"`
	LastName    string `json:"lastName" validate:"required,min=1,max=60"`
	CompanyName string `json:"companyName" validate:"required_if=Role employer"`
}

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Check validates a form and returns one entry per failing field, nil when
// the form may be submitted.
func Check(form any) []FieldError {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Rule: "invalid", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "required_if":
		return fmt.Sprintf("%s is required for this role", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", fe.Field(), fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
