// Package contact validates and delivers the portfolio contact form.
package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid wraps validation failures.
var ErrInvalid = errors.New("contact: invalid form")

// basicEmail matches local@domain with no whitespace.
var basicEmail = regexp.MustCompile(`^\S+@\S+$`)

// Form is a contact submission.
type Form struct {
	Name    string `form:"name" json:"name" validate:"required"`
	Email   string `form:"email" json:"email" validate:"required,basicemail"`
	Message string `form:"message" json:"message" validate:"required"`
}

// FieldErrors maps a form field to its user-facing message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, field := range []string{"name", "email", "message"} {
		if msg, ok := fe[field]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error { return ErrInvalid }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return basicEmail.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("contact: register basicemail validation: %v", err))
	}
	return v
}

var messages = map[string]map[string]string{
	"Name":    {"required": "Name is required"},
	"Email":   {"required": "Email is required", "basicemail": "Invalid email address"},
	"Message": {"required": "Message is required"},
}

// Normalize trims surrounding whitespace so blank input counts as missing.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate returns nil or FieldErrors for the normalized form.
func (f Form) Validate() error {
	err := validate.Struct(f.Normalize())
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		key := strings.ToLower(fe.StructField())
		if _, dup := out[key]; dup {
			continue
		}
		msg, ok := messages[fe.StructField()][fe.Tag()]
		if !ok {
			msg = fe.StructField() + " is invalid"
		}
		out[key] = msg
	}
	return out
}
