// Package validation implements the request validation pipeline: required
// fields, email syntax, and the password policy. All checks run in a fixed
// order and stop at the first violation, so a client always receives exactly
// one actionable message.
package validation

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

// emailPattern is deliberately conservative: non-empty local part, non-empty
// domain, and a dot followed by a 2-4 letter label.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,4}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("user_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// registerFields mirrors the registration payload. Field declaration order
// is the validation order; emptiness is checked before email syntax because
// the tag list of a field runs left to right and stops at the first failure.
type registerFields struct {
	LastName  string `validate:"required"`
	FirstName string `validate:"required"`
	Email     string `validate:"required,user_email"`
	Password  string `validate:"required"`
}

// updateFields only rejects fields that were supplied empty; nil pointers
// mean "leave untouched" and are skipped. omitnil (not omitempty) because a
// pointer to "" must still fail the min check.
type updateFields struct {
	FirstName *string `validate:"omitnil,min=1"`
	LastName  *string `validate:"omitnil,min=1"`
}

var fieldNames = map[string]string{
	"LastName":  "lastName",
	"FirstName": "firstName",
	"Email":     "email",
	"Password":  "password",
}

// RegisterFields checks the textual fields of a registration payload and
// returns a *domain.ValidationError for the first violation found.
func RegisterFields(in ports.RegisterInput) error {
	return firstViolation(validate.Struct(registerFields{
		LastName:  in.LastName,
		FirstName: in.FirstName,
		Email:     in.Email,
		Password:  in.Password,
	}))
}

// ProfileFields checks a partial profile update.
func ProfileFields(update ports.ProfileUpdate) error {
	return firstViolation(validate.Struct(updateFields{
		FirstName: update.FirstName,
		LastName:  update.LastName,
	}))
}

func firstViolation(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}

	fe := ve[0]
	field := fieldNames[fe.StructField()]
	switch fe.Tag() {
	case "required", "min":
		return &domain.ValidationError{Field: field, Reason: "may not be empty"}
	default: // user_email
		return &domain.ValidationError{Field: field, Reason: "invalid"}
	}
}
