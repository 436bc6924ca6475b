package account

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegistrationForm is what the user typed into the sign-up form.
// ConfirmPassword is only checked locally and never sent.
type RegistrationForm struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

// Field messages shown next to the offending input.
const (
	MsgFirstNameRequired = "You should provide the firstname"
	MsgLastNameRequired  = "You should provide the lastname"
	MsgEmailInvalid      = "Email incorrect"
	MsgPasswordRequired  = "You must provide a password"
	MsgPasswordMismatch  = "Passwords don't match"
)

var fieldMessages = map[string]string{
	"firstName":       MsgFirstNameRequired,
	"lastName":        MsgLastNameRequired,
	"email":           MsgEmailInvalid,
	"password":        MsgPasswordRequired,
	"confirmPassword": MsgPasswordMismatch,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names so errors line up with form inputs.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the form. It returns nil when the form can be submitted.
func (f RegistrationForm) Validate() FieldErrors {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	errs := make(FieldErrors)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["form"] = err.Error()
		return errs
	}
	for _, fieldErr := range validationErrors {
		field := fieldErr.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		if message, ok := fieldMessages[field]; ok {
			errs[field] = message
		} else {
			errs[field] = "The " + field + " field is invalid."
		}
	}
	return errs
}

// Request returns the payload to transmit.
func (f RegistrationForm) Request() RegisterRequest {
	return RegisterRequest{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
	}
}
