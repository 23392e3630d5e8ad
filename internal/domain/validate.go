package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// messages are keyed by "<json field>.<tag>".
var messages = map[string]string{
	"title.required":        "Title is required",
	"title.max":             "Title cannot be more than 200 characters",
	"content.required":      "Content is required",
	"name.required":         "Please provide a name",
	"name.max":              "Name cannot be more than 60 characters",
	"email.required":        "Please provide an email",
	"email.email":           "Please provide a valid email",
	"password.required":     "Please provide a password",
	"password.min":          "Password should be at least 6 characters long",
	"refreshToken.required": "Refresh token is required",
	"text.required":         "Text is required",
	"text.min":              "Text must be at least 10 characters long",
}

// Validate checks s against its struct tags and returns a *ValidationError
// for the first failing field, in declaration order.
func Validate(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}

	fe := fieldErrs[0]
	msg, ok := messages[fe.Field()+"."+fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return NewValidationError(fe.Field(), msg)
}

// TextRequest is the body of the AI assist endpoints.
type TextRequest struct {
	Text string `json:"text" validate:"required,min=10"`
}

func (r *TextRequest) Validate() error {
	return Validate(r)
}
