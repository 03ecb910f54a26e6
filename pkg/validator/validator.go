package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	slugRegex     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	isoCodeRegex  = regexp.MustCompile(`^[A-Z]{2}$`)
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

var phones = NewPhoneValidator()

// New returns a validator with the marketplace tags registered
func New() *validator.Validate {
	v := validator.New()
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Register installs the custom tags and reports JSON field names in errors.
// It is applied to gin's binding engine at startup.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	tags := map[string]validator.Func{
		"phone":    validatePhone,
		"slug":     validateSlug,
		"iso_code": validateISOCode,
		"username": validateUsername,
	}
	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

func validatePhone(fl validator.FieldLevel) bool {
	return phones.IsValid(fl.Field().String())
}

func validateSlug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

func validateISOCode(fl validator.FieldLevel) bool {
	return isoCodeRegex.MatchString(fl.Field().String())
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// FirstError returns the field name and message of the first failing field.
// Errors that are not validation errors yield an empty field and err's message.
func FirstError(err error) (string, string) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		e := validationErrors[0]
		return e.Field(), formatFieldError(e)
	}
	return "", err.Error()
}

// formatFieldError formats the error of a single field
func formatFieldError(e validator.FieldError) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		if e.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "phone":
		return fmt.Sprintf("%s must be an international phone number (+966, +962 or +974)", field)
	case "slug":
		return fmt.Sprintf("%s must contain lowercase letters, digits and dashes only", field)
	case "iso_code":
		return fmt.Sprintf("%s must be a two-letter uppercase ISO code", field)
	case "username":
		return fmt.Sprintf("%s may contain letters, digits, dots, dashes and underscores only", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
