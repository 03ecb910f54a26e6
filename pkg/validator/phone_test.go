package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneValidator(t *testing.T) {
	validator := NewPhoneValidator()
	assert.NotNil(t, validator)
}

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"+966501234567", "+966501234567", "Saudi E.164"},
		{"00966 50 123 4567", "+966501234567", "Saudi international prefix"},
		{"966-50-123-4567", "+966501234567", "With dashes"},
		{"+962 7 9123 4567", "+962791234567", "Jordan with spaces"},
		{"+974 3312 3456", "+97433123456", "Qatar"},
		{"(+974) 3312.3456", "+97433123456", "With parentheses and dots"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalid := []struct {
		input string
		err   error
		name  string
	}{
		{"", ErrEmptyPhone, "Empty"},
		{"+966abc", ErrInvalidFormat, "Letters"},
		{"+9661", ErrInvalidLength, "Too short"},
		{"+9661234567890123", ErrInvalidLength, "Too long"},
		{"+14155552671", ErrInvalidPrefix, "Unsupported country"},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.ErrorIs(t, err, tc.err)
			assert.False(t, validator.IsValid(tc.input))
		})
	}
}

func TestCountry(t *testing.T) {
	validator := NewPhoneValidator()

	code, ok := validator.Country("962791234567")
	assert.True(t, ok)
	assert.Equal(t, "JO", code)

	_, ok = validator.Country("44")
	assert.False(t, ok)
}
