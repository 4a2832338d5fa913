package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	ok, err := ValidateEmail("ana.garcia@example.com")
	assert.True(t, ok)
	assert.NoError(t, err)

	for _, email := range []string{"", "no-at-sign", "a@b", "spaces in@mail.com"} {
		ok, err := ValidateEmail(email)
		assert.False(t, ok, email)
		assert.Error(t, err, email)
	}
}

func TestValidatePhone(t *testing.T) {
	for _, phone := range []string{"+541112345678", "1112345678", "12345678", "11 1234-5678"} {
		ok, err := ValidatePhone(phone)
		assert.True(t, ok, phone)
		assert.NoError(t, err, phone)
	}

	for _, phone := range []string{"", "abc", "123", "+1 555 0100 0000 00"} {
		ok, err := ValidatePhone(phone)
		assert.False(t, ok, phone)
		assert.Error(t, err, phone)
	}
}

func TestValidatePlate(t *testing.T) {
	assert.True(t, ValidatePlate("ABC123"))
	assert.True(t, ValidatePlate("AB123CD"))
	assert.True(t, ValidatePlate("ab 123 cd"))

	assert.False(t, ValidatePlate(""))
	assert.False(t, ValidatePlate("1234"))
	assert.False(t, ValidatePlate("ABCD123"))
}
