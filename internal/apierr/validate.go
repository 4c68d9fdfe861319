package apierr

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
	// report JSON field names instead of Go ones
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate runs the struct's `validate` tags and converts failures into a *ValidationError.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate payload: %w", err)
	}

	validationErr := &ValidationError{}
	for _, fe := range fieldErrs {
		validationErr.Add(fieldPath(fe), fieldMessage(fe))
	}
	return validationErr
}

// fieldPath drops the root struct name: "planInput.create_workout_exercises[0].sets" -> "create_workout_exercises[0].sets"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return MsgRequired
	case "min":
		if isString {
			if fe.Param() == "1" {
				return MsgBlank
			}
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "datetime":
		return MsgDateFormat
	default:
		return "Invalid value."
	}
}

// ValidateRequired is Validate plus a required error for each of the missing fields.
func ValidateRequired(payload any, missing ...string) error {
	validationErr := &ValidationError{}
	for _, field := range missing {
		validationErr.Add(field, MsgRequired)
	}
	return ValidateInto(validationErr, payload)
}

// ValidateInto runs Validate and folds its field errors into validationErr, which may already hold
// errors from manual checks. A field already reported keeps only its existing messages.
func ValidateInto(validationErr *ValidationError, payload any) error {
	if err := Validate(payload); err != nil {
		var fieldsErr *ValidationError
		if !errors.As(err, &fieldsErr) {
			return err
		}
		for field, messages := range fieldsErr.Fields {
			if _, reported := validationErr.Fields[field]; reported {
				continue
			}
			for _, msg := range messages {
				validationErr.Add(field, msg)
			}
		}
	}

	return validationErr.OrNil()
}
