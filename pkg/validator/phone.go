package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates phone number length is outside E.164 bounds
	ErrInvalidLength = errors.New("phone number must have between 8 and 15 digits")

	// ErrInvalidPrefix indicates the number does not start with a supported country code
	ErrInvalidPrefix = errors.New("phone number must start with a supported country code (+966, +962, +974)")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// countryCodes maps supported calling codes to ISO country codes
var countryCodes = map[string]string{
	"966": "SA", // Saudi Arabia
	"962": "JO", // Jordan
	"974": "QA", // Qatar
}

// phoneRegex matches digits only
var phoneRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator handles phone number validation
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates an international phone number in a supported market.
// Accepts +966501234567, 00966 50 123 4567 or 966-50-123-4567.
// Returns the number in E.164 form.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	if len(sanitized) < 8 || len(sanitized) > 15 {
		return "", ErrInvalidLength
	}

	if _, ok := v.Country(sanitized); !ok {
		return "", ErrInvalidPrefix
	}

	return "+" + sanitized, nil
}

// Sanitize removes separators and the international prefix
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.TrimSpace(phone)
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
	phone = replacer.Replace(phone)

	phone = strings.TrimPrefix(phone, "+")
	phone = strings.TrimPrefix(phone, "00")

	return phone
}

// Country returns the ISO country code for a sanitized number
func (v *PhoneValidator) Country(sanitized string) (string, bool) {
	if len(sanitized) < 3 {
		return "", false
	}
	code, ok := countryCodes[sanitized[:3]]
	return code, ok
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
