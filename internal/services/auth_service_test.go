package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCookieValueRoundTrip(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	value := CookieValue("a1b2c3d4", issuedAt)

	token, err := ParseCookieValue(value)
	assert.NoError(t, err)
	assert.Equal(t, "a1b2c3d4", token)
}

func TestParseCookieValueRejectsGarbage(t *testing.T) {
	_, err := ParseCookieValue("not-base64!!!")
	assert.Error(t, err)

	_, err = ParseCookieValue("")
	assert.Error(t, err)
}

func TestNewStateTokenIsUnique(t *testing.T) {
	first, err := NewStateToken()
	assert.NoError(t, err)
	assert.NotEmpty(t, first)

	second, err := NewStateToken()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}
