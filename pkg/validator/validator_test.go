package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Username string `json:"username" binding:"required" validate:"required,username,min=3"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Slug     string `json:"slug" validate:"omitempty,slug"`
	Code     string `json:"code" validate:"omitempty,iso_code"`
	Status   string `json:"status" validate:"omitempty,oneof=approved rejected"`
}

func TestCustomTags(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		input     sampleInput
		wantField string
	}{
		{"valid", sampleInput{Username: "alice", Phone: "+966501234567", Slug: "deep-cleaning", Code: "SA", Status: "approved"}, ""},
		{"missing username", sampleInput{}, "username"},
		{"short username", sampleInput{Username: "al"}, "username"},
		{"bad username chars", sampleInput{Username: "al ice"}, "username"},
		{"bad phone", sampleInput{Username: "alice", Phone: "12"}, "phone"},
		{"bad slug", sampleInput{Username: "alice", Slug: "Deep Cleaning"}, "slug"},
		{"bad code", sampleInput{Username: "alice", Code: "sa"}, "code"},
		{"bad status", sampleInput{Username: "alice", Status: "pending"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			field, msg := FirstError(err)
			assert.Equal(t, tt.wantField, field)
			assert.Contains(t, msg, tt.wantField)
		})
	}
}

func TestFirstError_Messages(t *testing.T) {
	v := New()

	_, msg := FirstError(v.Struct(sampleInput{}))
	assert.Equal(t, "username is required", msg)

	_, msg = FirstError(v.Struct(sampleInput{Username: "al"}))
	assert.Equal(t, "username must be at least 3 characters", msg)

	_, msg = FirstError(v.Struct(sampleInput{Username: "alice", Status: "pending"}))
	assert.Equal(t, "status must be one of: approved rejected", msg)
}

func TestFirstError_NonValidationError(t *testing.T) {
	field, msg := FirstError(errors.New("unexpected EOF"))
	assert.Empty(t, field)
	assert.Equal(t, "unexpected EOF", msg)
}
