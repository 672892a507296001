package lead

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateField_Email(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"plain address", "priya@acme.com", true},
		{"subdomain", "p.sharma@mail.acme.co.in", true},
		{"surrounding whitespace trimmed", "  priya@acme.com  ", true},
		{"missing at", "priya.acme.com", false},
		{"missing tld", "priya@acme", false},
		{"dot at domain edge", "priya@acme.", false},
		{"two ats", "priya@@acme.com", false},
		{"inner whitespace", "priya sharma@acme.com", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateField(FieldEmail, tt.value)
			assert.Equal(t, tt.valid, res.Valid)
			if !tt.valid {
				assert.Contains(t, res.Message, "valid **email**")
			}
		})
	}
}

func TestValidateField_Phone(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"bare digits", "9876543210", true},
		{"formatted", "+91 98765-43210", true},
		{"exactly seven digits", "1234567", true},
		{"six digits", "123456", false},
		{"words only", "call me", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateField(FieldPhone, tt.value)
			assert.Equal(t, tt.valid, res.Valid)
		})
	}
}

func TestValidateField_Names(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{"simple", "Priya", true},
		{"two words", "Anil Kumar", true},
		{"single letter", "P", false},
		{"digits", "Priya2", false},
		{"punctuation", "O'Brien", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateField(FieldFirstName, tt.value)
			assert.Equal(t, tt.valid, res.Valid, "first name %q", tt.value)

			res = ValidateField(FieldLastName, tt.value)
			assert.Equal(t, tt.valid, res.Valid, "last name %q", tt.value)
		})
	}
}

func TestValidateField_FreeText(t *testing.T) {
	assert.True(t, ValidateField(FieldAddress, "12 MG Road, Bengaluru").Valid)
	assert.True(t, ValidateField(FieldCompany, "Acme").Valid)

	res := ValidateField(FieldAddress, "x")
	assert.False(t, res.Valid)
	assert.Equal(t, "Please provide a more detailed answer.", res.Message)
}
